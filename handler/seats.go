package handler

import (
	"cinema_booking/config"
	"cinema_booking/constants"
	"cinema_booking/database"
	"cinema_booking/helper"
	"cinema_booking/model"
	"cinema_booking/utils"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

var (
	redisClient *redis.Client
	redisOnce   sync.Once

	seatConnections = make(map[uint]map[*websocket.Conn]bool)
	seatMutex       sync.Mutex
)

func getRedis() *redis.Client {
	redisOnce.Do(func() {
		addr := config.ConfigDefault("REDIS_ADDR", "localhost:6379")
		redisClient = redis.NewClient(&redis.Options{Addr: addr})
	})
	return redisClient
}

func seatChannel(screeningId uint) string {
	return fmt.Sprintf("screening:%d", screeningId)
}

// buildSeatView assembles the ledger view for one screening: every seat of
// the auditorium grouped by row, flagged taken when sold or under a live hold.
func buildSeatView(screeningId uint, now time.Time) (map[int][]helper.SeatStatusEntry, error) {
	db := database.DB

	var screening model.Screening
	if err := db.First(&screening, screeningId).Error; err != nil {
		return nil, err
	}

	var seats []model.Seat
	if err := db.Where("auditorium_id = ?", screening.AuditoriumId).
		Order("row_number ASC, seat_number ASC").
		Find(&seats).Error; err != nil {
		return nil, err
	}

	sold, held, err := helper.LoadSeatLedger(db, screeningId)
	if err != nil {
		return nil, err
	}

	return helper.GroupSeatsByRow(seats, sold, held, now), nil
}

// GetScreeningSeats is the read side of the ledger. Purely derived from
// tickets and holds, so polling it never mutates anything.
func GetScreeningSeats(c *fiber.Ctx) error {
	screeningId := c.Locals("inputId").(uint)

	var screening model.Screening
	if err := database.DB.First(&screening, screeningId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.NOT_FOUND, err)
	}

	view, err := buildSeatView(screeningId, time.Now())
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Could not load seats", err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, view)
}

// PublishSeatUpdate pushes the fresh ledger view through Redis to every live
// viewer of the screening; each websocket is subscribed to the channel, so
// updates reach viewers on other nodes too.
func PublishSeatUpdate(screeningId uint) {
	view, err := buildSeatView(screeningId, time.Now())
	if err != nil {
		log.Printf("seat update build error for screening %d: %v", screeningId, err)
		return
	}
	payload, err := json.Marshal(view)
	if err != nil {
		log.Printf("seat update marshal error: %v", err)
		return
	}

	if err := getRedis().Publish(context.Background(), seatChannel(screeningId), payload).Err(); err != nil {
		log.Printf("seat update publish error: %v", err)
		broadcastLocal(screeningId, payload)
	}
}

// broadcastLocal is the fallback path when Redis is unreachable: at least the
// viewers connected to this node stay current.
func broadcastLocal(screeningId uint, payload []byte) {
	seatMutex.Lock()
	conns := seatConnections[screeningId]
	for conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			conn.Close()
			delete(conns, conn)
		}
	}
	seatMutex.Unlock()
}

// SeatWebsocket streams ledger updates for one screening. The client gets the
// full state on connect and a fresh snapshot after every purchase or hold.
func SeatWebsocket(c *websocket.Conn) {
	id64, err := strconv.ParseUint(c.Params("screeningId"), 10, 64)
	if err != nil {
		c.Close()
		return
	}
	screeningId := uint(id64)

	seatMutex.Lock()
	if seatConnections[screeningId] == nil {
		seatConnections[screeningId] = make(map[*websocket.Conn]bool)
	}
	seatConnections[screeningId][c] = true
	seatMutex.Unlock()

	defer func() {
		seatMutex.Lock()
		delete(seatConnections[screeningId], c)
		if len(seatConnections[screeningId]) == 0 {
			delete(seatConnections, screeningId)
		}
		seatMutex.Unlock()
		c.Close()
	}()

	if view, err := buildSeatView(screeningId, time.Now()); err == nil {
		c.WriteJSON(view)
	}

	pubsub := getRedis().Subscribe(context.Background(), seatChannel(screeningId))
	defer pubsub.Close()

	go func() {
		for msg := range pubsub.Channel() {
			if err := c.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				return
			}
		}
	}()

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
}

var holdLapseCron *cron.Cron

// StartHoldLapseWorker re-broadcasts screenings whose holds lapsed in the
// last minute. Expiry itself is lazy (the ledger compares expires_at with
// the clock); this job only keeps open websocket views current.
func StartHoldLapseWorker() {
	holdLapseCron = cron.New()
	holdLapseCron.AddFunc("@every 1m", func() {
		db := database.DB
		now := time.Now()

		var lapsed []model.Reservation
		if err := db.Where("is_finalized = ? AND expires_at BETWEEN ? AND ?",
			false, now.Add(-time.Minute), now).Find(&lapsed).Error; err != nil {
			log.Printf("hold lapse query error: %v", err)
			return
		}

		seen := map[uint]bool{}
		for _, r := range lapsed {
			if !seen[r.ScreeningId] {
				seen[r.ScreeningId] = true
				PublishSeatUpdate(r.ScreeningId)
			}
		}
	})
	holdLapseCron.Start()
}

func StopHoldLapseWorker() {
	if holdLapseCron != nil {
		holdLapseCron.Stop()
	}
}
