// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/tvsync/rlaxx-sync/internal/rlaxx"
	"go.uber.org/goleak"
)

func TestSync_NoGoroutineLeak(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	mock := rlaxx.NewMockServer()
	defer mock.Close()
	mock.SetChannels(map[string]any{"id": 1, "name": "One"})
	mock.FailEPGCall(1, http.StatusInternalServerError)

	transport := &http.Transport{}
	defer transport.CloseIdleConnections()
	dir := t.TempDir()

	_, err := Sync(context.Background(), Deps{
		Config: Config{Region: "GB", PlaylistPath: dir + "/p.m3u", XMLTVPath: dir + "/g.xml"},
		Client: rlaxx.New(rlaxx.Options{
			BaseURL:    mock.URL,
			HTTPClient: &http.Client{Transport: transport, Timeout: 2 * time.Second},
		}),
	})
	if err == nil {
		t.Fatal("expected EPG failure")
	}
}
