package meeting

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/fgloris/smart-meeting-go/internal/dto"
	"github.com/fgloris/smart-meeting-go/internal/errs"
)

type stubGateway struct {
	files       []dto.MeetingFile
	uploadCalls int
}

func (s *stubGateway) ListMeetings(context.Context, int64) ([]dto.Meeting, error) { return nil, nil }

func (s *stubGateway) CreateMeeting(_ context.Context, req dto.CreateMeetingRequest) (dto.Meeting, error) {
	return dto.Meeting{ID: 1, Title: req.Title, CreatorID: req.CreatorID}, nil
}

func (s *stubGateway) DeleteMeeting(context.Context, int64) error { return nil }

func (s *stubGateway) ListMeetingFiles(context.Context, int64) ([]dto.MeetingFile, error) {
	return append([]dto.MeetingFile(nil), s.files...), nil
}

func (s *stubGateway) UploadMeetingFile(_ context.Context, meetingID, uploaderID int64, name, _ string, _ io.Reader) (dto.MeetingFile, error) {
	s.uploadCalls++
	return dto.MeetingFile{ID: 9, MeetingID: meetingID, FileName: name, UploaderID: uploaderID}, nil
}

func (s *stubGateway) DownloadMeetingFile(_ context.Context, _ string, w io.Writer) (int64, error) {
	n, err := w.Write([]byte("body"))
	return int64(n), err
}

func (s *stubGateway) DeleteMeetingFile(context.Context, int64) error { return nil }

func TestFilesExcludesSoftDeleted(t *testing.T) {
	gw := &stubGateway{files: []dto.MeetingFile{
		{ID: 1, FileName: "kept.txt"},
		{ID: 2, FileName: "gone.txt", IsDeleted: true},
		{ID: 3, FileName: "also-kept.txt"},
	}}
	m := New(gw, 1, nil)

	files, err := m.Files(context.Background(), 7)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(files) != 2 || files[0].ID != 1 || files[1].ID != 3 {
		t.Fatalf("files = %+v", files)
	}
}

func TestUploadValidatesLocally(t *testing.T) {
	gw := &stubGateway{}
	m := New(gw, 1, nil)
	ctx := context.Background()

	if _, err := m.Upload(ctx, 7, "notes.txt", "", nil); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("nil reader: err = %v, want ErrValidation", err)
	}
	if _, err := m.Upload(ctx, 7, "", "", strings.NewReader("x")); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("empty name: err = %v, want ErrValidation", err)
	}
	if gw.uploadCalls != 0 {
		t.Fatalf("gateway contacted %d times for invalid input", gw.uploadCalls)
	}

	file, err := m.Upload(ctx, 7, "notes.txt", "", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if file.UploaderID != 1 || file.MeetingID != 7 {
		t.Fatalf("file = %+v", file)
	}
}

func TestCreateRequiresTitleAndStampsCreator(t *testing.T) {
	m := New(&stubGateway{}, 5, nil)
	ctx := context.Background()

	if _, err := m.Create(ctx, dto.CreateMeetingRequest{}); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	meeting, err := m.Create(ctx, dto.CreateMeetingRequest{Title: "standup"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if meeting.CreatorID != 5 {
		t.Fatalf("creator = %d, want 5", meeting.CreatorID)
	}
}
