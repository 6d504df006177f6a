// Package meeting wraps meeting and meeting-file operations. Files are
// soft-deleted only: listings exclude them, their ids stay addressable,
// and a deleted file's download path is permanently invalid.
package meeting

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/fgloris/smart-meeting-go/internal/dto"
	"github.com/fgloris/smart-meeting-go/internal/errs"
)

// Gateway is the slice of the remote gateway the manager needs.
type Gateway interface {
	ListMeetings(ctx context.Context, userID int64) ([]dto.Meeting, error)
	CreateMeeting(ctx context.Context, req dto.CreateMeetingRequest) (dto.Meeting, error)
	DeleteMeeting(ctx context.Context, meetingID int64) error
	ListMeetingFiles(ctx context.Context, meetingID int64) ([]dto.MeetingFile, error)
	UploadMeetingFile(ctx context.Context, meetingID, uploaderID int64, name, description string, r io.Reader) (dto.MeetingFile, error)
	DownloadMeetingFile(ctx context.Context, filePath string, w io.Writer) (int64, error)
	DeleteMeetingFile(ctx context.Context, fileID int64) error
}

type Manager struct {
	gw     Gateway
	log    *zap.Logger
	userID int64
}

func New(gw Gateway, userID int64, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{gw: gw, log: log, userID: userID}
}

func (m *Manager) List(ctx context.Context) ([]dto.Meeting, error) {
	return m.gw.ListMeetings(ctx, m.userID)
}

func (m *Manager) Create(ctx context.Context, req dto.CreateMeetingRequest) (dto.Meeting, error) {
	if req.Title == "" {
		return dto.Meeting{}, fmt.Errorf("%w: meeting title required", errs.ErrValidation)
	}
	req.CreatorID = m.userID
	return m.gw.CreateMeeting(ctx, req)
}

func (m *Manager) Delete(ctx context.Context, meetingID int64) error {
	return m.gw.DeleteMeeting(ctx, meetingID)
}

// Files lists a meeting's files with soft-deleted entries excluded.
func (m *Manager) Files(ctx context.Context, meetingID int64) ([]dto.MeetingFile, error) {
	files, err := m.gw.ListMeetingFiles(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	visible := files[:0:0]
	for _, f := range files {
		if !f.IsDeleted {
			visible = append(visible, f)
		}
	}
	return visible, nil
}

// Upload sends a file; the server assigns the id and the soft-delete
// flag starts false.
func (m *Manager) Upload(ctx context.Context, meetingID int64, name, description string, r io.Reader) (dto.MeetingFile, error) {
	if r == nil {
		return dto.MeetingFile{}, fmt.Errorf("%w: file handle required", errs.ErrValidation)
	}
	if name == "" {
		return dto.MeetingFile{}, fmt.Errorf("%w: file name required", errs.ErrValidation)
	}
	file, err := m.gw.UploadMeetingFile(ctx, meetingID, m.userID, name, description, r)
	if err != nil {
		return dto.MeetingFile{}, err
	}
	m.log.Debug("file uploaded",
		zap.Int64("meeting_id", meetingID),
		zap.Int64("file_id", file.ID),
		zap.String("name", file.FileName))
	return file, nil
}

// Download streams the file body keyed by its server-side path.
func (m *Manager) Download(ctx context.Context, filePath string, w io.Writer) (int64, error) {
	if filePath == "" {
		return 0, fmt.Errorf("%w: file path required", errs.ErrValidation)
	}
	return m.gw.DownloadMeetingFile(ctx, filePath, w)
}

// DeleteFile soft-deletes. The file stays addressable by id but is
// excluded from listings and its path no longer downloads.
func (m *Manager) DeleteFile(ctx context.Context, fileID int64) error {
	return m.gw.DeleteMeetingFile(ctx, fileID)
}
