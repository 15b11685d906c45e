// Package export serves bulk exports of admin selections as client-side
// file downloads. The selection is encoded as a pretty-printed JSON blob
// and delivered with a date-stamped attachment filename.
package export

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Document is the JSON shape written into an export file.
type Document struct {
	Resource   string    `json:"resource"`
	ExportedAt time.Time `json:"exported_at"`
	Count      int       `json:"count"`
	Records    any       `json:"records"`
}

// Filename builds the download filename for a resource exported at the
// given instant, e.g. "families-export-2026-08-29.json".
func Filename(resource string, at time.Time) string {
	return fmt.Sprintf("%s-export-%s.json", resource, at.Format("2006-01-02"))
}

// Write encodes records and sends them on c as a file download.
func Write(c echo.Context, resource string, count int, records any) error {
	now := time.Now().UTC()
	doc := Document{
		Resource:   resource,
		ExportedAt: now,
		Count:      count,
		Records:    records,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to encode export")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, Filename(resource, now)))
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, data)
}
