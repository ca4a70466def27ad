package handlers

import (
	"sync"
)

// Preview is the state of the last successful preview.
type Preview struct {
	URL          string
	Title        string
	Author       string
	Album        string
	ThumbnailURL string
	StreamURL    string
	Image        []byte
}

// Session is the shell's shared state. Task completion handlers write to it; requests read it.
type Session struct {
	mu           sync.RWMutex
	url          string
	preview      *Preview
	lastDownload string
	lastError    string
}

func NewSession() *Session {
	return &Session{}
}

func (s *Session) SetURL(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.url = url
}

func (s *Session) URL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.url
}

func (s *Session) SetPreview(p Preview) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preview = &p
	s.lastError = ""
}

func (s *Session) Preview() (Preview, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.preview == nil {
		return Preview{}, false
	}
	return *s.preview, true
}

func (s *Session) SetDownloaded(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastDownload = title
	s.lastError = ""
}

func (s *Session) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = err.Error()
}

func (s *Session) Snapshot() SessionResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SessionResponse{URL: s.url, LastDownload: s.lastDownload, LastError: s.lastError, HasPreview: s.preview != nil}
}
