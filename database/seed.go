package database

import (
	"cinema_booking/constants"
	"cinema_booking/model"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func SeedData(db *gorm.DB) {
	bytes, err := bcrypt.GenerateFromPassword([]byte("changeme123"), 10)
	if err != nil {
		log.Println("failed to hash seed password:", err)
		return
	}
	hashPassword := string(bytes)

	accounts := []model.Account{
		{Username: "admin", Email: "admin@cinema.local", Password: hashPassword, Active: true, Role: constants.ROLE_ADMIN},
	}
	for _, account := range accounts {
		if err := db.Where(model.Account{Username: account.Username}).FirstOrCreate(&account).Error; err != nil {
			log.Println("failed to seed account:", account.Username, "error:", err)
		}
	}

	ticketTypes := []model.TicketType{
		{Name: "Normalny", Price: 25.00},
		{Name: "Ulgowy", Price: 18.00},
		{Name: "Senior", Price: 15.00},
	}
	for _, tt := range ticketTypes {
		if err := db.Where(model.TicketType{Name: tt.Name}).FirstOrCreate(&tt).Error; err != nil {
			log.Println("failed to seed ticket type:", tt.Name, "error:", err)
		}
	}

	projectionTypes := []model.ProjectionType{
		{Name: "2D"},
		{Name: "3D"},
		{Name: "IMAX"},
	}
	for _, pt := range projectionTypes {
		if err := db.Where(model.ProjectionType{Name: pt.Name}).FirstOrCreate(&pt).Error; err != nil {
			log.Println("failed to seed projection type:", pt.Name, "error:", err)
		}
	}

	genres := []model.Genre{
		{Name: "Dramat"}, {Name: "Komedia"}, {Name: "Horror"}, {Name: "Sci-Fi"}, {Name: "Animacja"},
	}
	for _, g := range genres {
		if err := db.Where(model.Genre{Name: g.Name}).FirstOrCreate(&g).Error; err != nil {
			log.Println("failed to seed genre:", g.Name, "error:", err)
		}
	}
}
