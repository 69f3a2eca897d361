package whisper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/xpanvictor/voicewithin/pkg/Logger"
	"github.com/xpanvictor/voicewithin/pkg/io/stt"
)

// maxResponseBytes caps how much of an ASR answer is read. A few minutes of
// speech is a few KB of text.
const maxResponseBytes = 4 << 20

// asrResponse is the output=json body of the whisper ASR web service.
type asrResponse struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// WhisperClient uploads recordings to a local whisper ASR web service.
// No client timeout is set; the caller's context bounds the request.
type WhisperClient struct {
	endpoint   string
	httpClient *http.Client
	logger     *Logger.Logger
}

func NewWhisperClient(baseURL string, logger *Logger.Logger) *WhisperClient {
	q := url.Values{}
	q.Set("task", stt.Task)
	q.Set("language", stt.Language)
	q.Set("output", "json")

	return &WhisperClient{
		endpoint:   strings.TrimRight(baseURL, "/") + "/asr?" + q.Encode(),
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// Transcribe implements stt.Transcriber. The file is streamed as the
// multipart field audio_file rather than loaded into memory.
func (w *WhisperClient) Transcribe(ctx context.Context, audioPath string) (string, error) {
	audio, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("open audio: %w", err)
	}
	defer audio.Close()

	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeForm(form, audio, filepath.Base(audioPath)))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint, pr)
	if err != nil {
		pr.Close()
		return "", fmt.Errorf("build asr request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("asr request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read asr response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		w.logger.Errorw("whisper service error", "status", resp.StatusCode, "body", string(raw))
		return "", fmt.Errorf("whisper service returned status %d", resp.StatusCode)
	}

	var out asrResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		// some deployments answer with plain text regardless of output=json
		w.logger.Debugf("treating whisper response as plain text (%d bytes)", len(raw))
		return stt.Normalize(string(raw))
	}

	w.logger.Debugw("whisper transcription", "chars", len(out.Text), "language", out.Language)
	return stt.Normalize(out.Text)
}

func writeForm(form *multipart.Writer, audio io.Reader, name string) error {
	part, err := form.CreateFormFile("audio_file", name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, audio); err != nil {
		return err
	}
	return form.Close()
}

// Ping checks that the service answers at all. Any HTTP status counts.
func (w *WhisperClient) Ping(ctx context.Context) error {
	base, _, _ := strings.Cut(w.endpoint, "/asr?")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base, nil)
	if err != nil {
		return err
	}
	resp, err := w.httpClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
