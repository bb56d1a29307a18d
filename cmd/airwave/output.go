package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/airwavehq/airwave/internal/client"
	"github.com/airwavehq/airwave/internal/model"
	"github.com/airwavehq/airwave/internal/ui"
	"github.com/airwavehq/airwave/internal/workflow"
)

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func newTable(headers ...string) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetStyle(table.StyleLight)

	row := make(table.Row, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	tw.AppendHeader(row)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AlignHeader: text.AlignLeft},
	})
	return tw
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n-3] + "..."
	}
	return s
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}

func printClientTable(c *model.Client) {
	fmt.Printf("ID:        %s\n", c.ID)
	fmt.Printf("Name:      %s\n", c.Name)
	fmt.Printf("Slug:      %s\n", c.Slug)
	if c.Industry != "" {
		fmt.Printf("Industry:  %s\n", c.Industry)
	}
	if c.Description != "" {
		fmt.Printf("About:     %s\n", c.Description)
	}
	if c.PrimaryColor != "" {
		fmt.Printf("Colors:    %s / %s\n", c.PrimaryColor, c.SecondaryColor)
	}
	for _, contact := range c.Contacts {
		fmt.Printf("Contact:   %s <%s>\n", contact.Name, contact.Email)
	}
	fmt.Printf("Created:   %s\n", formatTime(c.CreatedAt))
}

func printClientListTable(clients []*model.Client, total int) {
	tw := newTable("ID", "NAME", "SLUG", "INDUSTRY", "CREATED")
	for _, c := range clients {
		tw.AppendRow(table.Row{c.ID, truncate(c.Name, 40), c.Slug, c.Industry, formatTime(c.CreatedAt)})
	}
	tw.Render()
	fmt.Printf("\n%d clients (%d total)\n", len(clients), total)
}

func printBriefTable(b *model.Brief) {
	fmt.Printf("ID:        %s\n", b.ID)
	fmt.Printf("Client:    %s\n", b.ClientID)
	fmt.Printf("Title:     %s\n", b.Title)
	fmt.Printf("Status:    %s\n", ui.RenderStatus(string(b.Status)))
	if b.DocumentName != "" {
		fmt.Printf("Document:  %s\n", b.DocumentName)
	}
	if b.Objective != "" {
		fmt.Printf("Objective: %s\n", b.Objective)
	}
	if b.TargetAudience != "" {
		fmt.Printf("Audience:  %s\n", b.TargetAudience)
	}
	if len(b.Platforms) > 0 {
		fmt.Printf("Platforms: %s\n", strings.Join(b.Platforms, ", "))
	}
	if b.Budget != "" {
		fmt.Printf("Budget:    %s\n", b.Budget)
	}
	if b.Timeline != "" {
		fmt.Printf("Timeline:  %s\n", b.Timeline)
	}
	for _, msg := range b.KeyMessages {
		fmt.Printf("Message:   %s\n", msg)
	}
	fmt.Printf("Created:   %s\n", formatTime(b.CreatedAt))
}

func printBriefListTable(briefs []*model.Brief, total int) {
	tw := newTable("ID", "STATUS", "TITLE", "PLATFORMS", "CREATED")
	for _, b := range briefs {
		tw.AppendRow(table.Row{
			b.ID,
			ui.RenderStatus(string(b.Status)),
			truncate(b.Title, 50),
			strings.Join(b.Platforms, ","),
			formatTime(b.CreatedAt),
		})
	}
	tw.Render()
	fmt.Printf("\n%d briefs (%d total)\n", len(briefs), total)
}

func printWorkflowTable(p *workflow.Progress) {
	tw := newTable("STEP", "DONE", "COUNT")
	for _, step := range p.Steps {
		done := ""
		if step.Done {
			done = "yes"
		}
		count := ""
		if step.Count > 0 {
			count = fmt.Sprintf("%d", step.Count)
		}
		tw.AppendRow(table.Row{step.Name, done, count})
	}
	tw.Render()
	if p.Complete {
		fmt.Println("\npipeline complete")
	} else if p.NextStep != "" {
		fmt.Printf("\nnext step: %s\n", ui.RenderAccent(p.NextStep))
	}
}

func printMotivationListTable(motivations []*model.Motivation, total int) {
	tw := newTable("ID", "SEL", "RELEVANCE", "CATEGORY", "TITLE")
	for _, m := range motivations {
		sel := ""
		if m.Selected {
			sel = "*"
		}
		tw.AppendRow(table.Row{m.ID, sel, m.Relevance, m.Category, truncate(m.Title, 50)})
	}
	tw.Render()
	fmt.Printf("\n%d motivations (%d total)\n", len(motivations), total)
}

func printCopyListTable(variants []*model.CopyVariant, total int) {
	tw := newTable("ID", "SEL", "PLATFORM", "TONE", "WORDS", "HEADLINE")
	for _, v := range variants {
		sel := ""
		if v.Selected {
			sel = "*"
		}
		tw.AppendRow(table.Row{v.ID, sel, v.Platform, v.Tone, v.WordCount, truncate(v.Headline, 50)})
	}
	tw.Render()
	fmt.Printf("\n%d variants (%d total)\n", len(variants), total)
}

func printAssetTable(a *model.Asset) {
	fmt.Printf("ID:        %s\n", a.ID)
	fmt.Printf("Client:    %s\n", a.ClientID)
	fmt.Printf("Name:      %s\n", a.Name)
	fmt.Printf("Kind:      %s\n", a.Kind)
	fmt.Printf("Type:      %s\n", a.ContentType)
	fmt.Printf("Size:      %d bytes\n", a.SizeBytes)
	if a.URL != "" {
		fmt.Printf("URL:       %s\n", a.URL)
	}
	if len(a.Tags) > 0 {
		fmt.Printf("Tags:      %s\n", strings.Join(a.Tags, ", "))
	}
	fmt.Printf("Created:   %s\n", formatTime(a.CreatedAt))
}

func printAssetListTable(assets []*model.Asset, total int) {
	tw := newTable("ID", "KIND", "NAME", "SIZE", "TAGS")
	for _, a := range assets {
		tw.AppendRow(table.Row{a.ID, a.Kind, truncate(a.Name, 40), a.SizeBytes, strings.Join(a.Tags, ",")})
	}
	tw.Render()
	fmt.Printf("\n%d assets (%d total)\n", len(assets), total)
}

func printMatrixTable(m *model.Matrix) {
	fmt.Printf("ID:        %s\n", m.ID)
	fmt.Printf("Client:    %s\n", m.ClientID)
	if m.BriefID != "" {
		fmt.Printf("Brief:     %s\n", m.BriefID)
	}
	fmt.Printf("Name:      %s\n", m.Name)
	fmt.Printf("Slug:      %s\n", m.Slug)
	for _, slot := range m.Slots {
		fmt.Printf("Slot:      %s (%s, %d options)\n", slot.Name, slot.Kind, len(slot.Options))
	}
	fmt.Printf("Created:   %s\n", formatTime(m.CreatedAt))
}

func printMatrixListTable(matrices []*model.Matrix, total int) {
	tw := newTable("ID", "NAME", "SLUG", "SLOTS", "CREATED")
	for _, m := range matrices {
		tw.AppendRow(table.Row{m.ID, truncate(m.Name, 40), m.Slug, len(m.Slots), formatTime(m.CreatedAt)})
	}
	tw.Render()
	fmt.Printf("\n%d matrices (%d total)\n", len(matrices), total)
}

func printExecutionTable(e *model.Execution) {
	fmt.Printf("ID:        %s\n", e.ID)
	fmt.Printf("Matrix:    %s\n", e.MatrixID)
	fmt.Printf("Status:    %s\n", ui.RenderStatus(string(e.Status)))
	if e.Platform != "" {
		fmt.Printf("Platform:  %s\n", e.Platform)
	}
	for slot, option := range e.Combination {
		fmt.Printf("Slot:      %s = %s\n", slot, option)
	}
	if e.RenderJobID != "" {
		fmt.Printf("Job:       %s\n", e.RenderJobID)
	}
	if e.OutputURL != "" {
		fmt.Printf("Output:    %s\n", e.OutputURL)
	}
	if e.Error != "" {
		fmt.Printf("Error:     %s\n", e.Error)
	}
	fmt.Printf("Updated:   %s\n", formatTime(e.UpdatedAt))
}

func printExecutionListTable(executions []*model.Execution, total int) {
	tw := newTable("ID", "STATUS", "PLATFORM", "OUTPUT", "UPDATED")
	for _, e := range executions {
		tw.AppendRow(table.Row{
			e.ID,
			ui.RenderStatus(string(e.Status)),
			e.Platform,
			truncate(e.OutputURL, 40),
			formatTime(e.UpdatedAt),
		})
	}
	tw.Render()
	fmt.Printf("\n%d executions (%d total)\n", len(executions), total)
}

func printUsageTable(summaries []*model.UsageSummary) {
	tw := newTable("SERVICE", "MONTH", "COST", "BUDGET", "MODEL", "STATE")
	for _, s := range summaries {
		state := "ok"
		if s.OverHardLimit {
			state = "over hard limit"
		} else if s.OverSoftLimit {
			state = "over soft limit"
		}
		tw.AppendRow(table.Row{
			s.Service,
			s.Month,
			fmt.Sprintf("$%.2f", s.Cost),
			fmt.Sprintf("$%.2f", s.Budget),
			s.ActiveModel,
			state,
		})
	}
	tw.Render()
}

func printStatsTable(stats *client.StatsResponse) {
	tw := newTable("METRIC", "COUNT")
	tw.AppendRow(table.Row{"clients", stats.Clients})
	tw.AppendRow(table.Row{"briefs", stats.Briefs})
	tw.AppendRow(table.Row{"assets", stats.Assets})
	tw.AppendRow(table.Row{"matrices", stats.Matrices})
	if e := stats.Executions; e != nil {
		tw.AppendRow(table.Row{"executions pending", e.TotalPending})
		tw.AppendRow(table.Row{"executions queued", e.TotalQueued})
		tw.AppendRow(table.Row{"executions processing", e.TotalProcessing})
		tw.AppendRow(table.Row{"executions completed", e.TotalCompleted})
		tw.AppendRow(table.Row{"executions failed", e.TotalFailed})
	}
	tw.Render()
}
