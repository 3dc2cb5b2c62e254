package cli

import (
	"github.com/samvad-hq/samvad-bulletin/internal/domain"
	"github.com/samvad-hq/samvad-bulletin/pkg/bulletin"
	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Announce the built-in sample stories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		retweet := domain.ShortPost{
			Author:    "horse_ebooks",
			Content:   "of course, as your probably already know, people",
			IsReply:   false,
			IsRetweet: true,
		}
		return bulletin.AnnounceAll[domain.Summarizer](cmd.OutOrStdout(),
			domain.NewSampleArticle(),
			retweet,
			domain.NewSamplePost(),
		)
	},
}
