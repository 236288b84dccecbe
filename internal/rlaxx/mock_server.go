// SPDX-License-Identifier: MIT

package rlaxx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
)

// EPGCall records one request received by the mock EPG endpoint.
type EPGCall struct {
	ChannelIDs []string
	StartTime  string
	EndTime    string
	Token      string
}

// MockServer provides a configurable Rlaxx API fake for tests.
type MockServer struct {
	*httptest.Server
	mu sync.Mutex

	token       string
	omitToken   bool
	channels    []map[string]any
	programmes  map[string][]map[string]any // channel id -> raw EPG records
	failures    map[string]int              // path -> HTTP status to answer with
	failEPGCall map[int]int                 // 1-based EPG call number -> HTTP status

	loginBodies []DeviceIdentity
	loginHeader http.Header
	channelHits int
	epgCalls    []EPGCall
}

// NewMockServer starts a mock API with a default token and no channels.
func NewMockServer() *MockServer {
	m := &MockServer{
		token:       "test-token",
		programmes:  make(map[string][]map[string]any),
		failures:    make(map[string]int),
		failEPGCall: make(map[int]int),
	}
	r := chi.NewRouter()
	r.Post("/device/login", m.handleLogin)
	r.Get("/channels", m.handleChannels)
	r.Get("/epg", m.handleEPG)
	m.Server = httptest.NewServer(r)
	return m
}

// SetToken changes the token handed out by login.
func (m *MockServer) SetToken(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
}

// OmitToken makes login answer 200 without a data.token field.
func (m *MockServer) OmitToken() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.omitToken = true
}

// SetChannels replaces the raw channel records.
func (m *MockServer) SetChannels(channels ...map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.channels = channels
}

// AddProgrammes appends raw EPG records for a channel.
func (m *MockServer) AddProgrammes(channelID string, progs ...map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.programmes[channelID] = append(m.programmes[channelID], progs...)
}

// FailPath makes every request to path answer with status.
func (m *MockServer) FailPath(path string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[path] = status
}

// FailEPGCall makes the n-th EPG request (1-based) answer with status.
func (m *MockServer) FailEPGCall(n, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failEPGCall[n] = status
}

// LoginRequests returns the decoded login payloads received so far.
func (m *MockServer) LoginRequests() []DeviceIdentity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]DeviceIdentity(nil), m.loginBodies...)
}

// LoginHeader returns the headers of the last login request.
func (m *MockServer) LoginHeader() http.Header {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loginHeader.Clone()
}

// ChannelRequests returns how many times the catalog was fetched.
func (m *MockServer) ChannelRequests() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.channelHits
}

// EPGCalls returns the EPG requests received so far, in arrival order.
func (m *MockServer) EPGCalls() []EPGCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]EPGCall(nil), m.epgCalls...)
}

func (m *MockServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var id DeviceIdentity
	if err := json.NewDecoder(r.Body).Decode(&id); err != nil {
		http.Error(w, "bad body", http.StatusBadRequest)
		return
	}

	m.mu.Lock()
	m.loginBodies = append(m.loginBodies, id)
	m.loginHeader = r.Header.Clone()
	status := m.failures[r.URL.Path]
	token, omit := m.token, m.omitToken
	m.mu.Unlock()

	if status != 0 {
		http.Error(w, `{"msg":"rejected"}`, status)
		return
	}
	if omit {
		writeJSON(w, map[string]any{"data": map[string]any{}})
		return
	}
	writeJSON(w, map[string]any{"data": map[string]any{"token": token}})
}

func (m *MockServer) handleChannels(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.channelHits++
	status := m.failures[r.URL.Path]
	ok := r.Header.Get("token") == m.token
	channels := m.channels
	m.mu.Unlock()

	switch {
	case status != 0:
		http.Error(w, "upstream failure", status)
	case !ok:
		http.Error(w, "invalid token", http.StatusUnauthorized)
	default:
		if channels == nil {
			channels = []map[string]any{}
		}
		writeJSON(w, map[string]any{"data": channels})
	}
}

func (m *MockServer) handleEPG(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var ids []string
	if raw := q.Get("channelIds"); raw != "" {
		ids = strings.Split(raw, ",")
	}

	m.mu.Lock()
	m.epgCalls = append(m.epgCalls, EPGCall{
		ChannelIDs: ids,
		StartTime:  q.Get("startTime"),
		EndTime:    q.Get("endTime"),
		Token:      r.Header.Get("token"),
	})
	status := m.failures[r.URL.Path]
	if s, ok := m.failEPGCall[len(m.epgCalls)]; ok {
		status = s
	}
	ok := r.Header.Get("token") == m.token
	data := make([]map[string]any, 0)
	for _, id := range ids {
		data = append(data, m.programmes[id]...)
	}
	m.mu.Unlock()

	switch {
	case status != 0:
		http.Error(w, "upstream failure", status)
	case !ok:
		http.Error(w, "invalid token", http.StatusUnauthorized)
	default:
		writeJSON(w, map[string]any{"data": data})
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
