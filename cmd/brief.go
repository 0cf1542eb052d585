package main

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/greenline365/pregreet/internal/briefing"
)

var briefReq briefing.Request

var briefCmd = &cobra.Command{
	Use:   "brief",
	Short: "Build one briefing and print it as JSON",
	Example: `  pregreet brief --caller "+1 239 555 0123" --to "+1 239 555 0100"
  pregreet brief --caller 2395550123 --tenant t-1 --zip 33901`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, cfg)
		if err != nil {
			return err
		}
		defer env.Close()

		b := env.Briefings.Build(ctx, briefReq)

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(b), "encode briefing")
	},
}

func init() {
	f := briefCmd.Flags()
	f.StringVar(&briefReq.CallerPhone, "caller", "", "caller phone number (required)")
	f.StringVar(&briefReq.ToPhone, "to", "", "dialed phone number")
	f.StringVar(&briefReq.TenantID, "tenant", "", "tenant id")
	f.StringVar(&briefReq.CallID, "call-id", "", "call id (generated when empty)")
	f.StringVar(&briefReq.ZipCode, "zip", "", "ZIP code for weather")
	_ = briefCmd.MarkFlagRequired("caller")
	rootCmd.AddCommand(briefCmd)
}
