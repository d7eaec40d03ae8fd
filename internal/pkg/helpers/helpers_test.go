package helpers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestCalculateOffsetLimit(t *testing.T) {
	tests := []struct {
		name       string
		page, size int
		offset     uint64
		limit      uint64
	}{
		{"first page", 1, 20, 0, 20},
		{"third page", 3, 20, 40, 20},
		{"zero page", 0, 20, 0, 20},
		{"oversized", 2, MaxPageSize + 1, DefaultPageSize, DefaultPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, limit := CalculateOffsetLimit(tt.page, tt.size)
			if offset != tt.offset || limit != tt.limit {
				t.Errorf("CalculateOffsetLimit(%d, %d) = %d, %d; want %d, %d", tt.page, tt.size, offset, limit, tt.offset, tt.limit)
			}
		})
	}
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(101, 9, 50)
	if info.TotalPages != 3 || info.CurrentPage != 3 {
		t.Errorf("got %+v", info)
	}
	empty := NewPaginationInfo(0, 1, 50)
	if empty.TotalPages != 1 || empty.CurrentPage != 1 {
		t.Errorf("got %+v", empty)
	}
}

func TestParsePaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?page=2&size=abc", nil)

	page, size := ParsePaginationParams(c, 25)
	if page != 2 || size != 25 {
		t.Errorf("got page=%d size=%d", page, size)
	}
}

func TestElapsedSeconds(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	if got := ElapsedSeconds(start, start.Add(90*time.Second+500*time.Millisecond)); got != 90 {
		t.Errorf("ElapsedSeconds = %d, want 90", got)
	}
	if got := ElapsedSeconds(start, start.Add(-time.Minute)); got != 0 {
		t.Errorf("ElapsedSeconds before start = %d, want 0", got)
	}
}
