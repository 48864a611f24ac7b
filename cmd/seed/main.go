package main

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/clause"

	"tourbook/internal/database"
	"tourbook/internal/domain"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "tourbook.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("running migrations")
	if err := database.Migrate(db); err != nil {
		log.Fatal("migrate failed:", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}

	users := []domain.User{
		{ID: 1, Email: "alice@example.com", PasswordHash: string(hash), Role: domain.RoleTraveler, Name: "Alice"},
		{ID: 2, Email: "bob@example.com", PasswordHash: string(hash), Role: domain.RoleTraveler, Name: "Bob"},
		{ID: 3, Email: "admin@example.com", PasswordHash: string(hash), Role: domain.RoleAdmin, Name: "Admin"},
	}
	for i := range users {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&users[i]).Error; err != nil {
			log.Fatal("seed users failed:", err)
		}
	}

	now := time.Now().UTC()
	bookings := []domain.Booking{
		// completed trip with a guide: fully reviewable
		{ID: 1, UserID: 1, TargetType: domain.TargetGuide, TargetID: 101,
			StartDate: now.AddDate(0, 0, -14), EndDate: now.AddDate(0, 0, -10), TotalPrice: 400,
			Status: domain.BookingCompleted, PaymentStatus: domain.PaymentPaid},
		// confirmed and paid hotel stay: reviewable before check-in by policy
		{ID: 2, UserID: 1, TargetType: domain.TargetHotel, TargetID: 202,
			StartDate: now.AddDate(0, 0, 7), EndDate: now.AddDate(0, 0, 10), TotalPrice: 900,
			Status: domain.BookingConfirmed, PaymentStatus: domain.PaymentPaid},
		// pending vehicle rental: not reviewable yet
		{ID: 3, UserID: 2, TargetType: domain.TargetVehicle, TargetID: 303,
			StartDate: now.AddDate(0, 0, 3), EndDate: now.AddDate(0, 0, 5), TotalPrice: 150,
			Status: domain.BookingPending, PaymentStatus: domain.PaymentUnpaid},
		// confirmed but unpaid tour: not reviewable yet
		{ID: 4, UserID: 2, TargetType: domain.TargetTour, TargetID: 404,
			StartDate: now.AddDate(0, 0, 20), EndDate: now.AddDate(0, 0, 24), TotalPrice: 1200,
			Status: domain.BookingConfirmed, PaymentStatus: domain.PaymentUnpaid},
		// completed custom trip
		{ID: 5, UserID: 2, TargetType: domain.TargetCustomTrip, TargetID: 505,
			StartDate: now.AddDate(0, -1, 0), EndDate: now.AddDate(0, -1, 7), TotalPrice: 3100,
			Status: domain.BookingCompleted, PaymentStatus: domain.PaymentPaid},
	}
	for i := range bookings {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&bookings[i]).Error; err != nil {
			log.Fatal("seed bookings failed:", err)
		}
	}

	log.Printf("seed completed: %d users, %d bookings", len(users), len(bookings))
}
