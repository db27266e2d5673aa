package model

import "time"

// Product is an SP3 orbit/clock file known to the system.
// Date is derived from the GPS week and day encoded in the filename.
type Product struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	StoragePath string    `json:"storage_path"`
	Size        int64     `json:"size"`
	GPSWeek     int       `json:"gps_week"`
	GPSDay      int       `json:"gps_day"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
}
