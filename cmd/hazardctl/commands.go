package main

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/hazard-intake-service/internal/domain"
)

// --- report ---

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Submit a voice transcript as a hazard report",
	RunE: func(cmd *cobra.Command, args []string) error {
		text, _ := cmd.Flags().GetString("text")
		lat, _ := cmd.Flags().GetFloat64("lat")
		lon, _ := cmd.Flags().GetFloat64("lon")

		req := map[string]any{"transcript": text}
		if cmd.Flags().Changed("lat") && cmd.Flags().Changed("lon") {
			req["coords"] = []float64{lat, lon}
		}

		client := newAPIClient(cmd)
		resp, err := client.do(cmd.Context(), http.MethodPost, "/v1/intake", req)
		if err != nil {
			return err
		}

		var result struct {
			Outcome  string               `json:"outcome"`
			Hazard   *domain.HazardRecord `json:"hazard"`
			Origin   string               `json:"origin"`
			Guidance string               `json:"guidance"`
		}
		if err := decodeOrError(resp, &result); err != nil {
			return err
		}

		switch result.Outcome {
		case "recorded":
			fmt.Printf("recorded %s [%s] %s (%s, via %s)\n",
				result.Hazard.ID, result.Hazard.Danger, result.Hazard.Text,
				result.Hazard.Address, result.Origin)
		default:
			fmt.Printf("%s: %s\n", result.Outcome, result.Guidance)
		}
		return nil
	},
}

// --- list ---

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded hazards, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newAPIClient(cmd)
		resp, err := client.do(cmd.Context(), http.MethodGet, "/v1/hazards", nil)
		if err != nil {
			return err
		}

		var result struct {
			Hazards []domain.HazardRecord `json:"hazards"`
			Origin  string                `json:"origin"`
		}
		if err := decodeOrError(resp, &result); err != nil {
			return err
		}

		if len(result.Hazards) == 0 {
			fmt.Printf("no hazards recorded (source: %s)\n", result.Origin)
			return nil
		}

		fmt.Printf("%d hazards (source: %s)\n", len(result.Hazards), result.Origin)
		for _, h := range result.Hazards {
			created := time.UnixMilli(h.CreatedAt).Format("2006-01-02 15:04")
			fmt.Printf("  %-24s %-6s %s  %s  (%s)\n", h.ID, h.Danger, created, h.Text, h.Address)
		}
		return nil
	},
}

// --- delete ---

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one hazard by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newAPIClient(cmd)
		resp, err := client.do(cmd.Context(), http.MethodDelete, "/v1/hazards/"+url.PathEscape(args[0]), nil)
		if err != nil {
			return err
		}
		if err := decodeOrError(resp, nil); err != nil {
			return err
		}
		fmt.Printf("deleted %s\n", args[0])
		return nil
	},
}

// --- clear ---

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every recorded hazard",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newAPIClient(cmd)
		resp, err := client.do(cmd.Context(), http.MethodDelete, "/v1/hazards", nil)
		if err != nil {
			return err
		}

		var result struct {
			Deleted int `json:"deleted"`
		}
		if err := decodeOrError(resp, &result); err != nil {
			return err
		}
		fmt.Printf("deleted %d hazards\n", result.Deleted)
		return nil
	},
}
