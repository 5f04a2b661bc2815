// Operator CLI: renders analytics reports straight off the database without
// going through the HTTP server. Safe to run next to a live server because
// the database is opened read-only.
package main

import (
	"chat-relay/repositories"
	"chat-relay/services"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
)

func main() {
	dbPath := flag.String("db", "/tmp/chat-relay/badger", "Path to badger DB")
	report := flag.String("report", "messages-per-room", "Report: messages-per-room | user-activity | rooms")
	startDate := flag.String("start", "", "Start date filter (YYYY-MM-DD)")
	endDate := flag.String("end", "", "End date filter (YYYY-MM-DD)")
	csvOut := flag.String("csv", "", "Write messages-per-room as CSV to this file instead of a table")
	flag.Parse()

	start, end, err := parseWindow(*startDate, *endDate)
	if err != nil {
		log.Fatal(err)
	}

	// BypassLockGuard allows opening while the server process holds the lock.
	opts := badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	logger := logs.GetLoggerFromString("ERROR")
	analytics := services.NewAnalyticsService(
		repositories.NewMessageRepository(db, logger),
		repositories.NewRoomRepository(db),
	)

	switch *report {
	case "messages-per-room":
		if *csvOut != "" {
			writeCSV(analytics, *csvOut, start, end)
			return
		}
		renderMessagesPerRoom(analytics, start, end)
	case "user-activity":
		renderUserActivity(analytics, start, end)
	case "rooms":
		renderRooms(db)
	default:
		log.Fatalf("Unknown report %q", *report)
	}
}

func parseWindow(startRaw, endRaw string) (*time.Time, *time.Time, error) {
	const layout = "2006-01-02"

	var start, end *time.Time
	if startRaw != "" {
		parsed, err := time.Parse(layout, startRaw)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid -start %q: %w", startRaw, err)
		}
		start = &parsed
	}
	if endRaw != "" {
		parsed, err := time.Parse(layout, endRaw)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid -end %q: %w", endRaw, err)
		}
		endOfDay := parsed.Add(24*time.Hour - time.Nanosecond)
		end = &endOfDay
	}
	return start, end, nil
}

func renderMessagesPerRoom(analytics services.IAnalyticsService, start, end *time.Time) {
	counts, err := analytics.MessagesPerRoom(start, end)
	if err != nil {
		log.Fatal("Report failed: ", err)
	}

	fmt.Println(color.New(color.BgBlack, color.FgGreen).Render("Messages per room"))
	table := newTable([]string{"Room", "Messages"})
	total := 0
	for _, c := range counts {
		table.Append([]string{c.Room, strconv.Itoa(c.MessageCount)})
		total += c.MessageCount
	}
	table.SetFooter([]string{"TOTAL", strconv.Itoa(total)})
	table.Render()
}

func renderUserActivity(analytics services.IAnalyticsService, start, end *time.Time) {
	counts, err := analytics.UserActivity(start, end)
	if err != nil {
		log.Fatal("Report failed: ", err)
	}

	fmt.Println(color.New(color.BgBlack, color.FgGreen).Render("User activity"))
	table := newTable([]string{"User", "Messages"})
	for _, c := range counts {
		table.Append([]string{c.Username, strconv.Itoa(c.MessagesSent)})
	}
	table.Render()
}

func renderRooms(db *badger.DB) {
	rooms, err := repositories.NewRoomRepository(db).ListRooms()
	if err != nil {
		log.Fatal("Report failed: ", err)
	}

	fmt.Println(color.New(color.BgBlack, color.FgGreen).Render("Rooms"))
	table := newTable([]string{"ID", "Name", "Created By", "Created At"})
	for _, r := range rooms {
		table.Append([]string{
			strconv.Itoa(int(r.ID)),
			r.Name,
			r.CreatedBy,
			r.CreatedAt.Format(time.RFC822),
		})
	}
	table.Render()
}

func writeCSV(analytics services.IAnalyticsService, path string, start, end *time.Time) {
	file, err := os.Create(path)
	if err != nil {
		log.Fatal("Cannot create CSV file: ", err)
	}
	defer file.Close()

	if err := analytics.WriteMessagesPerRoomCSV(file, start, end); err != nil {
		log.Fatal("CSV export failed: ", err)
	}
	fmt.Printf("CSV written to %s\n", path)
}

func newTable(header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}
