package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/fgloris/smart-meeting-go/internal/dto"
)

func (c *Client) ListMeetings(ctx context.Context, userID int64) ([]dto.Meeting, error) {
	var meetings []dto.Meeting
	path := fmt.Sprintf("/api/meeting/list/%d", userID)
	if err := c.doJSON(ctx, "list_meetings", http.MethodGet, path, nil, &meetings); err != nil {
		return nil, err
	}
	return meetings, nil
}

func (c *Client) CreateMeeting(ctx context.Context, req dto.CreateMeetingRequest) (dto.Meeting, error) {
	var meeting dto.Meeting
	if err := c.doJSON(ctx, "create_meeting", http.MethodPost, "/api/meeting/create", req, &meeting); err != nil {
		return dto.Meeting{}, err
	}
	return meeting, nil
}

func (c *Client) DeleteMeeting(ctx context.Context, meetingID int64) error {
	path := fmt.Sprintf("/api/meeting/%d", meetingID)
	return c.doJSON(ctx, "delete_meeting", http.MethodDelete, path, nil, nil)
}

func (c *Client) ListMeetingFiles(ctx context.Context, meetingID int64) ([]dto.MeetingFile, error) {
	var env dto.MeetingFilesEnvelope
	path := fmt.Sprintf("/api/meeting/file/meeting/%d", meetingID)
	if err := c.doJSON(ctx, "list_meeting_files", http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	return env.Files, nil
}

// UploadMeetingFile sends the file as a multipart form. The body is
// buffered before sending; upload sizes here are meeting attachments,
// not media streams.
func (c *Client) UploadMeetingFile(ctx context.Context, meetingID, uploaderID int64, name, description string, r io.Reader) (dto.MeetingFile, error) {
	const op = "upload_meeting_file"

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return dto.MeetingFile{}, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return dto.MeetingFile{}, fmt.Errorf("%s: read file: %w", op, err)
	}
	_ = mw.WriteField("meeting_id", strconv.FormatInt(meetingID, 10))
	_ = mw.WriteField("uploader_id", strconv.FormatInt(uploaderID, 10))
	_ = mw.WriteField("description", description)
	if err := mw.Close(); err != nil {
		return dto.MeetingFile{}, fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/meeting/file/upload", &buf)
	if err != nil {
		return dto.MeetingFile{}, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := c.do(op, req)
	if err != nil {
		return dto.MeetingFile{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if err := checkStatus(op, resp); err != nil {
		return dto.MeetingFile{}, err
	}
	var file dto.MeetingFile
	if err := decodeStrict(op, resp.Body, &file); err != nil {
		return dto.MeetingFile{}, err
	}
	return file, nil
}

// DownloadMeetingFile streams the binary body for a server-side file
// path into w and returns the number of bytes copied. The path key is
// the one reported in listings; a soft-deleted file's path is invalid.
func (c *Client) DownloadMeetingFile(ctx context.Context, filePath string, w io.Writer) (int64, error) {
	const op = "download_meeting_file"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/file/download/"+escapePath(filePath), nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	resp, err := c.do(op, req)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if err := checkStatus(op, resp); err != nil {
		return 0, err
	}
	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// escapePath escapes each segment but keeps the separators: server-side
// file paths contain slashes that are part of the route.
func escapePath(p string) string {
	segs := strings.Split(strings.TrimPrefix(p, "/"), "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}

func (c *Client) DeleteMeetingFile(ctx context.Context, fileID int64) error {
	path := fmt.Sprintf("/api/meeting/file/%d", fileID)
	return c.doJSON(ctx, "delete_meeting_file", http.MethodDelete, path, nil, nil)
}
