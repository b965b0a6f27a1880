package main

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"NProject/data/database/mgo/mongoutil"
	"NProject/global/config"
	"NProject/logger"
	"NProject/middleware"
	note "NProject/module/note"
	notesvc "NProject/module/note/service"
	notestore "NProject/module/note/store"
	user "NProject/module/user"
	usersvc "NProject/module/user/service"
	userstore "NProject/module/user/store"
	"NProject/service/notes"
	"NProject/service/notes/handlers"
	"NProject/service/storage"
	storageredis "NProject/service/storage/redis"
	"NProject/tools/ids"
	"NProject/tools/security"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	bootTimeout    = 15 * time.Second
	fanoutWorkers  = 4
	fanoutQueueLen = 1024
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ids.SetNodeID(snowflakeNode(cfg.NodeID))

	ctx, cancel := context.WithTimeout(context.Background(), bootTimeout)
	defer cancel()

	mongoCli, err := mongoutil.NewMongoDB(ctx, &cfg.Mongo)
	if err != nil {
		logger.Log.Fatal("mongo connect", zap.Error(err))
	}
	db := mongoCli.GetDB()

	users := userstore.NewRepo(db)
	notesRepo := notestore.NewRepo(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		logger.Log.Fatal("users indexes", zap.Error(err))
	}
	if err := notesRepo.EnsureIndexes(ctx); err != nil {
		logger.Log.Fatal("notes indexes", zap.Error(err))
	}

	// Redis is optional: presence degrades to a no-op when it is absent.
	rdb, err := storageredis.New(cfg.Redis)
	if err != nil {
		logger.Warnf("redis unavailable, presence disabled: %v", err)
		rdb = nil
	}
	presence := storage.NewPresence(rdb, cfg.NodeID, cfg.Presence.TTL)

	jwtOpts := security.DefaultOptions(cfg.JWT.Secret)
	jwtOpts.TTL = cfg.JWT.TTL

	userService := usersvc.NewService(users, jwtOpts)
	noteService := notesvc.NewService(notesRepo)

	disp := notes.NewDispatcher()
	handlers.RegisterAll(disp)

	gateway := notes.NewServer(notes.Deps{
		NodeID:   cfg.NodeID,
		Disp:     disp,
		ConnMgr:  notes.NewConnManager(),
		Tracker:  notes.NewRoomTracker(),
		Hub:      notes.NewHub(notes.NewFanout(fanoutWorkers, fanoutQueueLen)),
		Notes:    notesRepo,
		Resolver: userService,
		Presence: presence,
	})

	auth := middleware.Auth(userService)

	r := gin.New()
	r.Use(gin.Recovery())

	user.NewHandler(userService).Routes(r, auth)
	note.NewHandler(noteService).Routes(r, auth)
	r.GET("/notes", gateway.HandleWS)
	r.GET("/stats", func(c *gin.Context) {
		rooms, subs := gateway.Hub().Stats()
		c.JSON(200, gin.H{
			"node":        cfg.NodeID,
			"rooms":       rooms,
			"subscribers": subs,
			"connections": gateway.ConnMgr().Count(),
		})
	})

	addr := ":" + strconv.Itoa(cfg.Port)
	logger.Infof("gateway listening on %s node=%s", addr, cfg.NodeID)
	if err := r.Run(addr); err != nil {
		logger.Log.Fatal("http serve", zap.Error(err))
	}
}

// snowflakeNode maps the configured node name onto the 10-bit id space.
func snowflakeNode(name string) int64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return int64(h.Sum32() % 1024)
}
