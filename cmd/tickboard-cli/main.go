package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tickboard/internal/board"
	"tickboard/internal/httpapi"
)

func main() {
	var (
		server string
		search string
		sortBy string
		dir    string
		watch  time.Duration
	)

	rootCmd := &cobra.Command{
		Use:   "tickboard-cli",
		Short: "Render the tickboard quote table in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			viper.AutomaticEnv()
			if !cmd.Flags().Changed("server") {
				if v := viper.GetString("TICKBOARD_SERVER"); v != "" {
					server = v
				}
			}

			client := &http.Client{Timeout: 15 * time.Second}
			for {
				if err := renderOnce(client, os.Stdout, server, search, sortBy, dir); err != nil {
					return err
				}
				if watch <= 0 {
					return nil
				}
				time.Sleep(watch)
				fmt.Println()
			}
		},
	}

	rootCmd.Flags().StringVar(&server, "server", "http://127.0.0.1:8080", "tickboard server base URL")
	rootCmd.Flags().StringVar(&search, "search", "", "filter rows by symbol or name substring")
	rootCmd.Flags().StringVar(&sortBy, "sort", "symbol", "sort key: symbol, name, price, changePercent, change, timestamp")
	rootCmd.Flags().StringVar(&dir, "dir", "asc", "sort direction: asc or desc")
	rootCmd.Flags().DurationVar(&watch, "watch", 0, "re-render every interval (0 renders once)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// renderOnce fetches the board state and projected rows and prints the table.
func renderOnce(client *http.Client, out io.Writer, server, search, sortBy, dir string) error {
	var state board.State
	if err := getJSON(client, server+"/api/board", &state); err != nil {
		return err
	}

	params := url.Values{"search": {search}, "sort": {sortBy}, "dir": {dir}}
	var quotes httpapi.QuotesResponse
	if err := getJSON(client, server+"/api/quotes?"+params.Encode(), &quotes); err != nil {
		return err
	}

	if state.Status == board.StatusError && state.Error != "" {
		fmt.Fprintln(out, text.Colors{text.FgRed}.Sprint(state.Error))
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.SetStyle(table.StyleColoredDark)
	tw.Style().Options.DrawBorder = false
	tw.Style().Options.SeparateRows = false
	tw.Style().Options.SeparateColumns = false
	tw.AppendHeader(table.Row{"SYMBOL", "NAME", "PRICE", "CHG%", "CHG"})

	for _, r := range quotes.Rows {
		chgPct := fmt.Sprintf("%.2f%%", r.ChangePercent)
		chg := fmt.Sprintf("%+.2f", r.Change)
		if r.ChangePercent > 0 {
			chgPct = text.Colors{text.FgGreen}.Sprint(chgPct)
			chg = text.Colors{text.FgGreen}.Sprint(chg)
		} else if r.ChangePercent < 0 {
			chgPct = text.Colors{text.FgRed}.Sprint(chgPct)
			chg = text.Colors{text.FgRed}.Sprint(chg)
		}
		tw.AppendRow(table.Row{r.Symbol, r.Name, fmt.Sprintf("%.2f", r.Price), chgPct, chg})
	}
	tw.Render()

	if state.UpdatedAt > 0 {
		fmt.Fprintf(out, "updated %s\n", time.Unix(state.UpdatedAt, 0).Format("15:04:05"))
	}
	return nil
}

func getJSON(client *http.Client, u string, out any) error {
	resp, err := client.Get(u)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: HTTP %d", u, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
