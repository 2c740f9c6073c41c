// Copyright (c) 2026 Veerakabilan31
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Veerakabilan31/portfolio/internal/logging"
	"github.com/Veerakabilan31/portfolio/internal/store"
)

var exportHeader = []string{"ID", "Name", "Email", "Message", "Timestamp"}

// ExportMessages handles GET /export_messages. Rows are streamed in
// ascending id order.
func (h *DashboardHandler) ExportMessages(w http.ResponseWriter, r *http.Request) {
	filename := fmt.Sprintf("messages_%d.csv", time.Now().Unix())

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Cache-Control", "no-store")

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		h.logger.Error("writing export header", "error", err)
		return
	}

	rows := 0
	err := h.store.ForEachMessage(r.Context(), func(m store.Message) error {
		rows++
		return cw.Write([]string{
			strconv.FormatInt(m.ID, 10),
			m.Name,
			m.Email,
			m.Message,
			m.CreatedAt.UTC().Format(store.TimestampLayout),
		})
	})
	cw.Flush()

	if err == nil {
		err = cw.Error()
	}
	if err != nil {
		// Headers are already sent; the download ends truncated.
		h.logger.Error("exporting messages", "error", err, "rows", rows,
			"category", logging.EventCategoryStorage)
		return
	}

	h.logger.Info("messages exported", "rows", rows)
}
