package database

import (
	"cinema_booking/config"
	"cinema_booking/model"
	"fmt"
	"strconv"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	var err error
	p := config.ConfigDefault("DB_PORT", "5432")
	port, err := strconv.ParseUint(p, 10, 32)

	if err != nil {
		panic("failed to parse database port")
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		config.Config("DB_HOST"), port, config.Config("DB_USER"), config.Config("DB_PASSWORD"), config.Config("DB_NAME"))
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})

	if err != nil {
		panic("failed to connect database")
	}

	fmt.Println("Connection Opened to Database")

	// join rows carry screening_id so the unique (screening_id, seat_id)
	// index can back up the seat ledger
	if err := DB.SetupJoinTable(&model.Ticket{}, "Seats", &model.TicketSeat{}); err != nil {
		panic("failed to set up ticket_seats join table")
	}

	DB.AutoMigrate(
		&model.Account{},
		&model.Genre{},
		&model.Movie{},
		&model.Auditorium{},
		&model.Seat{},
		&model.ProjectionType{},
		&model.Screening{},
		&model.TicketType{},
		&model.Ticket{},
		&model.TicketSeat{},
		&model.Reservation{},
		&model.PromotionRule{},
	)
	fmt.Println("Database Migrated")

	SeedData(DB)
}
