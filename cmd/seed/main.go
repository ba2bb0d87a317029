// Seeds one sample upload (a telegram job-postings export with image
// references) through the same storage and repository code the API uses,
// so a fresh checkout has something to preview.
package main

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"csvviewer/internal/config"
	"csvviewer/internal/database"
	"csvviewer/internal/domain/upload"
	"csvviewer/internal/pkg/csvtable"
	"csvviewer/internal/pkg/imagematch"
	"csvviewer/internal/storage"
)

var sampleRows = []csvtable.Row{
	{
		"group":      "IraqJobz",
		"sender":     "-1.00216E+12",
		"text":       "We're Hiring - Junior Accountant. Shahan Company is looking for a motivated Junior Accountant to join our HQ in Sulaymaniyah.",
		"date":       "8/23/2025 15:16",
		"has_image":  "TRUE",
		"image_path": "messages/images/IraqJobz/IraqJobz_9839_20250823_151627.jpg",
		"message_id": "9839",
	},
	{
		"group":      "IraqJobz",
		"sender":     "-1.00216E+12",
		"text":       "Position: Deputy Manager Location: Baghdad. Experience in staff management, team leadership, and administrative tasks required.",
		"date":       "8/23/2025 15:19",
		"has_image":  "TRUE",
		"image_path": "messages/images/IraqJobz/IraqJobz_9840_20250823_151913.jpg",
		"message_id": "9840",
	},
	{
		"group":      "IraqJobz",
		"sender":     "-1.00216E+12",
		"text":       "We're Growing - Join Us as a Cybersecurity Sales Engineer! Looking for 3-5 years experience in cybersecurity pre-sales.",
		"date":       "8/23/2025 15:19",
		"has_image":  "FALSE",
		"image_path": "",
		"message_id": "9841",
	},
}

var sampleHeaders = []string{"group", "sender", "text", "date", "has_image", "image_path", "message_id"}

// minimal valid 1x1 GIF, stands in for real photos
var placeholderImage = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00, 0x80, 0x00,
	0x00, 0x00, 0x00, 0x00, 0xff, 0xff, 0xff, 0x21, 0xf9, 0x04, 0x01, 0x00,
	0x00, 0x00, 0x00, 0x2c, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00,
	0x00, 0x02, 0x02, 0x44, 0x01, 0x00, 0x3b,
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}
	if err := db.AutoMigrate(&upload.Upload{}); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	store, err := storage.NewLocal(cfg.UploadsDir)
	if err != nil {
		log.Fatal(err)
	}

	id := uuid.NewString()
	table := csvtable.Table{Headers: sampleHeaders, Rows: sampleRows}

	var buf bytes.Buffer
	if err := csvtable.Write(&buf, table); err != nil {
		log.Fatal("serialize sample csv:", err)
	}

	csvPath, err := store.SaveCSV(id+"_sample_telegram_data.csv", &buf)
	if err != nil {
		log.Fatal(err)
	}

	var imagePaths upload.StringSlice
	seq := 0
	for _, row := range sampleRows {
		if row["has_image"] != "TRUE" {
			continue
		}
		name := fmt.Sprintf("%s_%d_%s", id, seq, imagematch.TargetName(row["image_path"]))
		rel, err := store.SaveImage(name, bytes.NewReader(placeholderImage))
		if err != nil {
			log.Fatal(err)
		}
		imagePaths = append(imagePaths, rel)
		seq++
	}

	repo := upload.NewRepository(db)
	record := &upload.Upload{
		ID:         id,
		Filename:   "sample_telegram_data.csv",
		CSVPath:    csvPath,
		ImagePaths: imagePaths,
		UploadDate: time.Now(),
		RowCount:   len(sampleRows),
		ImageCount: len(imagePaths),
		Headers:    upload.StringSlice(sampleHeaders),
	}
	if err := repo.Create(context.Background(), record); err != nil {
		log.Fatal("save sample record:", err)
	}

	log.Printf("seeded upload %s (%d rows, %d images)", id, record.RowCount, record.ImageCount)
}
