package videogen

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contentgen/backend/internal/domain/video"
)

func TestSoraClient_CreateVideo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/videos", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "sora-2-pro", r.FormValue("model"))
		assert.Equal(t, "a cat", r.FormValue("prompt"))
		assert.Equal(t, SoraDefaultSeconds, r.FormValue("seconds"))
		assert.Equal(t, SoraDefaultSize, r.FormValue("size"))
		_, _ = w.Write([]byte(`{"id":"video_1","object":"video","status":"queued","model":"sora-2-pro","progress":0,"created_at":1700000000}`))
	}))
	defer srv.Close()

	c := NewSoraClient(Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1"}, nil)
	job, err := c.CreateVideo(context.Background(), video.CreateRequest{Prompt: "a cat", Model: video.ModelSora2Pro})

	require.NoError(t, err)
	assert.Equal(t, "video_1", job.ID)
	assert.Equal(t, video.StatusQueued, job.Status)
	assert.Equal(t, int64(1700000000), job.CreatedAt)
}

func TestSoraClient_StatusAndDownload(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/videos/video_1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"video_1","status":"completed","progress":100,"model":"sora-2"}`))
	})
	mux.HandleFunc("/v1/videos/video_1/content", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "video", r.URL.Query().Get("variant"))
		_, _ = w.Write([]byte("mp4-bytes"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewSoraClient(Config{APIKey: "k", BaseURL: srv.URL}, nil)

	job, err := c.GetVideoStatus(context.Background(), "video_1")
	require.NoError(t, err)
	assert.Equal(t, video.StatusCompleted, job.Status)
	assert.Equal(t, 100, job.Progress)

	var buf bytes.Buffer
	n, err := c.DownloadVideoContent(context.Background(), "video_1", &buf, "")
	require.NoError(t, err)
	assert.Equal(t, int64(9), n)
	assert.Equal(t, "mp4-bytes", buf.String())
}

func TestSoraClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key"}}`))
	}))
	defer srv.Close()

	c := NewSoraClient(Config{APIKey: "k", BaseURL: srv.URL}, nil)
	_, err := c.CreateVideo(context.Background(), video.CreateRequest{Prompt: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestProviders_NotConfigured(t *testing.T) {
	gens := []video.Generator{
		NewSoraClient(Config{}, nil),
		NewKieVeoClient(Config{}, nil),
		NewKieWanClient(Config{}, nil),
	}
	for _, g := range gens {
		_, err := g.CreateVideo(context.Background(), video.CreateRequest{Prompt: "x"})
		assert.ErrorIs(t, err, video.ErrProviderUnavailable, g.ServiceName())
	}
}

func TestKieVeoClient_CreateVideo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/veo/generate", r.URL.Path)
		var body veoGenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "veo3", body.Model)
		assert.Equal(t, "16:9", body.AspectRatio)
		_, _ = w.Write([]byte(`{"code":200,"msg":"success","data":{"taskId":"task-1"}}`))
	}))
	defer srv.Close()

	c := NewKieVeoClient(Config{APIKey: "k", BaseURL: srv.URL}, nil)
	job, err := c.CreateVideo(context.Background(), video.CreateRequest{Prompt: "news anchor", Size: "720p"})

	require.NoError(t, err)
	assert.Equal(t, "task-1", job.ID)
	assert.Equal(t, "kie-veo-3.1", job.Model)
	assert.Equal(t, video.StatusQueued, job.Status)
	assert.Equal(t, "720p", job.Size)
	assert.Equal(t, "5", job.Seconds)
}

func TestKieVeoClient_APIErrorCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":402,"msg":"insufficient credits"}`))
	}))
	defer srv.Close()

	c := NewKieVeoClient(Config{APIKey: "k", BaseURL: srv.URL}, nil)
	_, err := c.CreateVideo(context.Background(), video.CreateRequest{Prompt: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient credits")
}

func TestVeoJob(t *testing.T) {
	tests := []struct {
		name     string
		record   string
		status   video.Status
		progress int
		url      string
		errMsg   string
	}{
		{name: "pending", record: `{"successFlag":0}`, status: video.StatusQueued},
		{name: "processing", record: `{"successFlag":3}`, status: video.StatusInProgress, progress: 50},
		{name: "encoded urls", record: `{"successFlag":1,"resultUrls":"[\"https://cdn/x.mp4\"]"}`, status: video.StatusCompleted, progress: 100, url: "https://cdn/x.mp4"},
		{name: "nested array", record: `{"successFlag":1,"response":{"resultUrls":["https://cdn/y.mp4"]}}`, status: video.StatusCompleted, progress: 100, url: "https://cdn/y.mp4"},
		{name: "failed", record: `{"successFlag":2,"errorMessage":"policy"}`, status: video.StatusFailed, errMsg: "policy"},
		{name: "failed default message", record: `{"successFlag":2}`, status: video.StatusFailed, errMsg: "Video generation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec veoRecord
			require.NoError(t, json.Unmarshal([]byte(tt.record), &rec))
			job := veoJob("t", &rec)
			assert.Equal(t, tt.status, job.Status)
			assert.Equal(t, tt.progress, job.Progress)
			assert.Equal(t, tt.url, job.VideoURL)
			assert.Equal(t, tt.errMsg, job.ErrorMessage())
		})
	}
}

func TestKieVeoClient_Download(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()
	mux.HandleFunc("/api/v1/veo/record-info", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "task-1", r.URL.Query().Get("taskId"))
		_, _ = w.Write([]byte(`{"code":200,"data":{"successFlag":1,"resultUrls":["` + srv.URL + `/files/out.mp4"]}}`))
	})
	mux.HandleFunc("/files/out.mp4", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte("veo"))
	})

	c := NewKieVeoClient(Config{APIKey: "k", BaseURL: srv.URL}, nil)
	var buf bytes.Buffer
	n, err := c.DownloadVideoContent(context.Background(), "task-1", &buf, video.DefaultVariant)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, "veo", buf.String())
}

func TestKieVeoClient_DownloadWithoutURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":200,"data":{"successFlag":3}}`))
	}))
	defer srv.Close()

	c := NewKieVeoClient(Config{APIKey: "k", BaseURL: srv.URL}, nil)
	_, err := c.DownloadVideoContent(context.Background(), "task-1", &bytes.Buffer{}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no video URL")
}

func TestKieWanClient_CreateVideo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/jobs/createTask", r.URL.Path)
		var body wanCreateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, wanUpstreamModel, body.Model)
		assert.Equal(t, "10", body.Input.Duration)
		assert.Equal(t, "720p", body.Input.Resolution)
		assert.True(t, body.Input.EnablePromptExpansion)
		assert.Equal(t, "https://img/x.png", body.Input.ImageURL)
		_, _ = w.Write([]byte(`{"code":200,"data":{"taskId":"wan-1"}}`))
	}))
	defer srv.Close()

	c := NewKieWanClient(Config{APIKey: "k", BaseURL: srv.URL}, nil)
	job, err := c.CreateVideo(context.Background(), video.CreateRequest{
		Prompt: "presenter speaks", Seconds: "10", Size: "720p", ImageURL: "https://img/x.png",
	})

	require.NoError(t, err)
	assert.Equal(t, "wan-1", job.ID)
	assert.Equal(t, "kie-wan-2.5", job.Model)
	assert.Equal(t, "10", job.Seconds)
}

func TestWanJob(t *testing.T) {
	tests := []struct {
		raw      string
		status   video.Status
		progress int
		url      string
	}{
		{raw: `{"status":"pending"}`, status: video.StatusQueued},
		{raw: `{"status":"PROCESSING"}`, status: video.StatusInProgress, progress: 50},
		{raw: `{"status":"succeeded","output":{"video_url":"u1"}}`, status: video.StatusCompleted, progress: 100, url: "u1"},
		{raw: `{"status":"completed","output":{"videoUrl":"u2"}}`, status: video.StatusCompleted, progress: 100, url: "u2"},
		{raw: `{"status":"error","error":"boom"}`, status: video.StatusFailed},
	}
	for _, tt := range tests {
		var task wanTask
		require.NoError(t, json.Unmarshal([]byte(tt.raw), &task))
		job := wanJob("w", &task)
		assert.Equal(t, tt.status, job.Status, tt.raw)
		assert.Equal(t, tt.progress, job.Progress, tt.raw)
		assert.Equal(t, tt.url, job.VideoURL, tt.raw)
	}
}
