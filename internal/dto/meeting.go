package dto

import "time"

type Meeting struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	CreatorID int64     `json:"creator_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Location  string    `json:"location"`
}

type CreateMeetingRequest struct {
	Title     string    `json:"title"`
	CreatorID int64     `json:"creator_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Location  string    `json:"location"`
}

// MeetingFile is soft-deleted only: IsDeleted excludes it from listings
// but the id stays addressable.
type MeetingFile struct {
	ID         int64     `json:"id"`
	MeetingID  int64     `json:"meeting_id"`
	FileName   string    `json:"file_name"`
	FilePath   string    `json:"file_path"`
	FileSize   int64     `json:"file_size"`
	FileType   string    `json:"file_type"`
	UploaderID int64     `json:"uploader_id"`
	UploadTime time.Time `json:"upload_time"`
	IsDeleted  bool      `json:"is_deleted"`
}

type MeetingFilesEnvelope struct {
	Files     []MeetingFile `json:"files"`
	MeetingID int64         `json:"meeting_id"`
}
