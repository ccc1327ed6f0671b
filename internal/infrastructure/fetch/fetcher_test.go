package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	domainfetch "github.com/GuptaSandhali/BackgroundMusic/internal/domain/fetch"
)

func newTestFetcher(driveBase string) *HTTPFetcher {
	f := NewHTTPFetcher(5 * time.Second)
	if driveBase != "" {
		f.driveBase = driveBase
	}
	return f
}

func TestExtractDriveFileID(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{
			"file path segment",
			"https://drive.google.com/file/d/1y5MbuIq01IldamB9HdxvmDSx4wfcn7qr/view?usp=sharing",
			"1y5MbuIq01IldamB9HdxvmDSx4wfcn7qr",
			false,
		},
		{
			"id query parameter",
			"https://drive.google.com/open?id=abc123",
			"abc123",
			false,
		},
		{
			"uc download link",
			"https://drive.google.com/uc?export=download&id=xyz789",
			"xyz789",
			false,
		},
		{
			"no identifier",
			"https://drive.google.com/drive/my-drive",
			"",
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractDriveFileID(tt.url)
			if tt.wantErr {
				if !errors.Is(err, domainfetch.ErrInvalidShareLink) {
					t.Errorf("err = %v, want ErrInvalidShareLink", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("id = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFetchDirectURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("audio-bytes"))
	}))
	defer srv.Close()

	dst := filepath.Join(t.TempDir(), "voice.bin")
	if err := newTestFetcher("").Fetch(context.Background(), srv.URL, dst); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "audio-bytes" {
		t.Errorf("downloaded %q", data)
	}
}

func TestFetchDirectURLNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	err := newTestFetcher("").Fetch(context.Background(), srv.URL, filepath.Join(t.TempDir(), "x.bin"))
	var dlErr *domainfetch.DownloadError
	if !errors.As(err, &dlErr) {
		t.Fatalf("err = %v, want DownloadError", err)
	}
	if dlErr.Status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", dlErr.Status)
	}
}

func TestFetchNetworkError(t *testing.T) {
	err := newTestFetcher("").Fetch(context.Background(), "http://127.0.0.1:1/nope", filepath.Join(t.TempDir(), "x.bin"))
	var dlErr *domainfetch.DownloadError
	if !errors.As(err, &dlErr) {
		t.Fatalf("err = %v, want DownloadError", err)
	}
	if dlErr.Status != 0 {
		t.Errorf("status = %d, want 0 for network failure", dlErr.Status)
	}
}

func TestFetchDriveDirectDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/uc" || r.URL.Query().Get("id") != "file42" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("mp3-data"))
	}))
	defer srv.Close()

	dst := filepath.Join(t.TempDir(), "bg.bin")
	err := newTestFetcher(srv.URL).Fetch(context.Background(), "https://drive.google.com/file/d/file42/view", dst)
	if err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(dst)
	if string(data) != "mp3-data" {
		t.Errorf("downloaded %q", data)
	}
}

func TestFetchDriveInterstitialBypass(t *testing.T) {
	var srvURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/uc" && r.URL.Query().Get("confirm") == "t":
			w.Header().Set("Content-Type", "audio/mpeg")
			w.Write([]byte("real-audio"))
		case r.URL.Path == "/uc":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte(`<html><body>Google Drive can't scan this file for viruses.
<a id="download_warning" href="` + srvURL + `/uc?export=download&amp;confirm=t&amp;id=big1">Download anyway</a>
</body></html>`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	srvURL = srv.URL

	dst := filepath.Join(t.TempDir(), "big.bin")
	err := newTestFetcher(srv.URL).Fetch(context.Background(), "https://drive.google.com/file/d/big1/view", dst)
	if err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(dst)
	if string(data) != "real-audio" {
		t.Errorf("downloaded %q, want the post-confirmation body", data)
	}
}

func TestFetchDriveHTMLWithoutWarningIsKept(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>not an interstitial</html>"))
	}))
	defer srv.Close()

	dst := filepath.Join(t.TempDir(), "page.bin")
	err := newTestFetcher(srv.URL).Fetch(context.Background(), "https://drive.google.com/file/d/odd/view", dst)
	if err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(dst)
	if string(data) != "<html>not an interstitial</html>" {
		t.Errorf("downloaded %q", data)
	}
}

func TestFetchDriveInvalidShareLink(t *testing.T) {
	err := newTestFetcher("").Fetch(context.Background(), "https://drive.google.com/drive/my-drive", filepath.Join(t.TempDir(), "x.bin"))
	if !errors.Is(err, domainfetch.ErrInvalidShareLink) {
		t.Errorf("err = %v, want ErrInvalidShareLink", err)
	}
}
