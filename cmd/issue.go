package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"roomtoken/internal/app/token"
)

type issueOptions struct {
	Room   string
	Verify bool
}

type issueOutput struct {
	AppID         string `json:"appId"`
	Token         string `json:"token"`
	TokenID       string `json:"tokenId"`
	PeerID        string `json:"peerId"`
	RoomID        string `json:"roomId"`
	SchemaVersion int    `json:"schemaVersion"`
	IssuedAt      int64  `json:"issuedAt"`
	ExpiresAt     int64  `json:"expiresAt"`
}

func issueCmd() *cobra.Command {
	var opts issueOptions
	cmd := &cobra.Command{
		Use:          "issue",
		Short:        "Issue one token and print it as JSON",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, issuer, err := setup()
			if err != nil {
				return err
			}
			return runIssue(cmd.OutOrStdout(), issuer, opts)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&opts.Room, "room", "r", "", "room to grant (default: the configured default room)")
	fs.BoolVar(&opts.Verify, "verify", false, "parse the issued token back with the configured secret before printing")
	return cmd
}

func runIssue(out io.Writer, issuer *token.Issuer, opts issueOptions) error {
	issued, err := issuer.Issue(opts.Room)
	if err != nil {
		return err
	}

	if opts.Verify {
		if _, _, err := issuer.Verify(issued.Token); err != nil {
			return fmt.Errorf("issued token failed verification: %w", err)
		}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(issueOutput{
		AppID:         issuer.AppID(),
		Token:         issued.Token,
		TokenID:       issued.ID,
		PeerID:        issued.PeerID,
		RoomID:        issued.Room,
		SchemaVersion: int(issued.SchemaVersion),
		IssuedAt:      issued.IssuedAt.Unix(),
		ExpiresAt:     issued.ExpiresAt.Unix(),
	})
}
