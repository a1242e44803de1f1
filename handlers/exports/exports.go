package exports

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"

	"github.com/nosij-playz/Tantra-backend/handlers/participants"
	"github.com/nosij-playz/Tantra-backend/models"
	"github.com/nosij-playz/Tantra-backend/store"
)

// Headers is the canonical export column order for every format.
var Headers = []string{
	"name", "email", "phone", "college", "branch",
	"year", "event_name", "dept_name", "transaction_id",
}

// ErrUnsupportedFormat is returned for any format other than csv, xlsx or
// pdf; the HTTP layer maps it to a 400.
var ErrUnsupportedFormat = errors.New("unsupported format. Allowed: csv, xlsx, pdf")

// MIME types per format.
const (
	mimeCSV  = "text/csv"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimePDF  = "application/pdf"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// File is a fully rendered export: the bytes, the computed attachment
// filename and its MIME type.
type File struct {
	Bytes    []byte
	Filename string
	MIME     string
}

// Sanitize turns a department or event name into a filename token:
// lower-cased, runs of non-alphanumerics collapsed to one underscore, edge
// underscores trimmed, "value" when nothing survives.
func Sanitize(s string) string {
	s = nonAlnum.ReplaceAllString(strings.ToLower(s), "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "value"
	}
	return s
}

// baseFilename builds tantra_<dept>_<event>; absent filters become the
// all_departments / all_events tokens.
func baseFilename(deptName, eventName string) string {
	deptPart := "all_departments"
	if deptName != "" {
		deptPart = Sanitize(deptName)
	}
	eventPart := "all_events"
	if eventName != "" {
		eventPart = Sanitize(eventName)
	}
	return "tantra_" + deptPart + "_" + eventPart
}

// Serialize renders rows into the requested format entirely in memory.
// Zero rows still produce a valid file containing only the header row.
func Serialize(rows []models.ParticipantRow, deptName, eventName, format string) (*File, error) {
	base := baseFilename(deptName, eventName)
	switch strings.ToLower(format) {
	case "csv":
		b, err := renderCSV(rows)
		if err != nil {
			return nil, err
		}
		return &File{Bytes: b, Filename: base + ".csv", MIME: mimeCSV}, nil
	case "xlsx":
		b, err := renderXLSX(rows)
		if err != nil {
			return nil, err
		}
		return &File{Bytes: b, Filename: base + ".xlsx", MIME: mimeXLSX}, nil
	case "pdf":
		b, err := renderPDF(rows)
		if err != nil {
			return nil, err
		}
		return &File{Bytes: b, Filename: base + ".pdf", MIME: mimePDF}, nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

func rowValues(r models.ParticipantRow) []string {
	return []string{
		r.Name, r.Email, r.Phone, r.College, r.Branch,
		r.Year, r.EventName, r.DeptName, r.TransactionID,
	}
}

func renderCSV(rows []models.ParticipantRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Headers); err != nil {
		return nil, err
	}
	for _, r := range rows {
		if err := w.Write(rowValues(r)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderXLSX(rows []models.ParticipantRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := make([]any, len(Headers))
	for i, h := range Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := rowValues(r)
		line := make([]any, len(values))
		for j, v := range values {
			line[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &line); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderPDF(rows []models.ParticipantRow) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 12)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colW := (pageW - left - right) / float64(len(Headers))

	// Header row: accent fill, white text, full grid.
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(0x7c, 0x4d, 0xff)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetDrawColor(128, 128, 128)
	for _, h := range Headers {
		pdf.CellFormat(colW, 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(0, 0, 0)
	for _, r := range rows {
		for _, v := range rowValues(r) {
			pdf.CellFormat(colW, 6, v, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Export - GET /export_participants?dept_id=&event_id=&format=csv|xlsx|pdf
// Streams the matching participants as a file attachment. Unknown ids
// degrade to an unfiltered export; an unknown format is a 400.
func Export(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		deptID := c.Query("dept_id")
		eventID := c.Query("event_id")
		format := strings.ToLower(c.Query("format", "xlsx"))

		deptName := ""
		if deptID != "" {
			if doc, err := st.Get(c.Context(), "departments", deptID); err == nil && doc != nil {
				deptName = models.StringField(doc.Data, "name")
			}
		}

		// The event selector may be a document id or already a literal
		// event name; try the id first.
		eventName := ""
		if eventID != "" {
			eventName = eventID
			if doc, err := st.Get(c.Context(), "events", eventID); err == nil && doc != nil {
				eventName = models.StringField(doc.Data, "name")
			}
		}

		rows, err := participants.ListDirect(c.Context(), st, deptName, eventName)
		if err != nil {
			return err
		}

		f, err := Serialize(rows, deptName, eventName, format)
		if errors.Is(err, ErrUnsupportedFormat) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err != nil {
			return err
		}

		c.Set(fiber.HeaderContentType, f.MIME)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", f.Filename))
		return c.Send(f.Bytes)
	}
}
