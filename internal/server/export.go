package server

import (
	"encoding/csv"
	"net/http"

	"go.uber.org/zap"
)

const isoMillis = "2006-01-02T15:04:05.000Z07:00"

var exportHeader = []string{"License Plate", "Duration", "Amount", "Payment Method", "Date & Time", "Status", "Valid Until"}

func (s *Server) handleExportRegistrations(w http.ResponseWriter, r *http.Request) {
	dateRange, err := parseDateRange(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	regs, err := s.storage.ListRegistrations(r.Context(), dateRange)
	if err != nil {
		s.respondStorageError(w, "exporting registrations", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=parking-registrations.csv")
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	rows := make([][]string, 0, len(regs)+1)
	rows = append(rows, exportHeader)
	for _, reg := range regs {
		rows = append(rows, []string{
			reg.LicensePlate,
			reg.DurationType,
			reg.Amount.String(),
			reg.PaymentMethod,
			reg.CreatedAt.UTC().Format(isoMillis),
			reg.Status,
			reg.EndTime.UTC().Format(isoMillis),
		})
	}
	if err := cw.WriteAll(rows); err != nil {
		s.logger.Error("csv export interrupted", zap.Int("rows", len(regs)), zap.Error(err))
	}
}
