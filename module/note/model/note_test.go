package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanMutate(t *testing.T) {
	n := &Note{OwnerID: "owner", Members: []string{"m1", "m2"}}

	tests := []struct {
		name string
		user string
		want bool
	}{
		{name: "owner", user: "owner", want: true},
		{name: "member", user: "m1", want: true},
		{name: "other member", user: "m2", want: true},
		{name: "stranger", user: "m3", want: false},
		{name: "empty id", user: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.CanMutate(tt.user))
		})
	}
}

func TestHasMemberEmptyList(t *testing.T) {
	n := &Note{OwnerID: "owner"}
	assert.False(t, n.HasMember("anyone"))
	assert.True(t, n.CanMutate("owner"))
}
