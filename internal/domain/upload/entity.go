package upload

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Upload records one CSV submission: the original filename, where the CSV
// and image blobs live on disk, and counts/headers denormalized at upload
// time. Uploads are immutable once created.
type Upload struct {
	ID         string      `gorm:"column:id;primaryKey" json:"id"`
	Filename   string      `gorm:"column:filename" json:"filename"`
	CSVPath    string      `gorm:"column:csv_path" json:"csvPath"`
	ImagePaths StringSlice `gorm:"column:image_paths;type:text" json:"imagePaths"`
	UploadDate time.Time   `gorm:"column:upload_date" json:"uploadDate"`
	RowCount   int         `gorm:"column:row_count" json:"rowCount"`
	ImageCount int         `gorm:"column:image_count" json:"imageCount"`
	Headers    StringSlice `gorm:"column:headers;type:text" json:"headers"`
}

func (Upload) TableName() string { return "uploads" }

// StringSlice is an ordered []string stored as a JSON text column, so the
// same schema works on SQLite and PostgreSQL.
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}
	if len(data) == 0 {
		*s = StringSlice{}
		return nil
	}
	return json.Unmarshal(data, (*[]string)(s))
}
