package handler

import (
	"io"
	"log/slog"
	"strconv"

	"github.com/librarycatalog/library-api/internal/response"
)

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func newWriterForTest() *response.Writer {
	return response.NewWriter(false, slog.New(slog.NewTextHandler(io.Discard, nil)))
}
