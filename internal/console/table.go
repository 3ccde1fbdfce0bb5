package console

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"tarediiran-industries.com/train-dispatch/internal/register"
)

const (
	cellPadding = 2

	ansiStrikethrough = "\x1b[9m"
	ansiReset         = "\x1b[0m"
)

var ansiEscape = regexp.MustCompile("\x1b\\[[;\\d]*m")

var departureHeader = []string{"Departure", "Line", "Number", "Destination", "Track", "Delay"}

// renderedWidth is the number of terminal cells s occupies, ignoring ANSI escapes.
func renderedWidth(s string) int {
	return runewidth.StringWidth(ansiEscape.ReplaceAllString(s, ""))
}

// BuildTable renders rows as a boxed table. The first row is the header.
func BuildTable(rows [][]string) (string, error) {
	if len(rows) == 0 {
		return "", errors.New("table cannot be empty")
	}

	widths := make([]int, len(rows[0]))
	for i, row := range rows {
		if len(row) != len(widths) {
			return "", fmt.Errorf("row %d has %d columns, header has %d", i, len(row), len(widths))
		}
		for j, cell := range row {
			widths[j] = max(widths[j], renderedWidth(cell))
		}
	}

	var sb strings.Builder
	writeRule(&sb, widths)
	writeRow(&sb, rows[0], widths)
	writeRule(&sb, widths)
	for _, row := range rows[1:] {
		writeRow(&sb, row, widths)
	}
	writeRule(&sb, widths)

	return sb.String(), nil
}

func writeRule(sb *strings.Builder, widths []int) {
	for _, width := range widths {
		sb.WriteString("+")
		sb.WriteString(strings.Repeat("-", width+cellPadding*2))
	}
	sb.WriteString("+\n")
}

func writeRow(sb *strings.Builder, row []string, widths []int) {
	for i, cell := range row {
		sb.WriteString("|")
		sb.WriteString(strings.Repeat(" ", cellPadding))
		sb.WriteString(cell)
		sb.WriteString(strings.Repeat(" ", widths[i]-renderedWidth(cell)+cellPadding))
	}
	sb.WriteString("|\n")
}

// FormatDepartureTime shows the effective time, followed by the struck-out
// scheduled time when the departure is delayed.
func FormatDepartureTime(departure register.Departure) string {
	if departure.Delay() == 0 {
		return departure.DepartureTime().String()
	}
	return departure.EffectiveDepartureTime().String() + " " +
		ansiStrikethrough + departure.DepartureTime().String() + ansiReset
}

func formatDelay(delay time.Duration) string {
	if delay == 0 {
		return ""
	}
	return fmt.Sprintf("%d min", int(delay/time.Minute))
}

func formatTrack(track int) string {
	if track == 0 {
		return "-"
	}
	return strconv.Itoa(track)
}

func DepartureRows(departures []register.Departure) [][]string {
	rows := make([][]string, 0, len(departures)+1)
	rows = append(rows, departureHeader)
	for _, departure := range departures {
		rows = append(rows, []string{
			FormatDepartureTime(departure),
			departure.Line(),
			strconv.Itoa(departure.TrainNumber()),
			departure.Destination(),
			formatTrack(departure.Track()),
			formatDelay(departure.Delay()),
		})
	}
	return rows
}

func DepartureTable(departures []register.Departure) string {
	// the header row is always present, so this cannot fail
	table, _ := BuildTable(DepartureRows(departures))
	return table
}
