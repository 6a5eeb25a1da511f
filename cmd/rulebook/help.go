package rulebook

import (
	"embed"

	"github.com/arthur-debert/rulebook/pkg/cobrax/topics"
	"github.com/spf13/cobra"
)

//go:embed topics
var topicsFS embed.FS

func installTopics(rootCmd *cobra.Command) {
	m, err := topics.Load(topicsFS, "topics", topics.Options{
		Renderer: topics.NewGlamourRenderer(),
	})
	if err != nil {
		return
	}
	m.Install(rootCmd)
	rootCmd.AddCommand(newTopicsCmd(m))
}

func newTopicsCmd(m *topics.Manager) *cobra.Command {
	return &cobra.Command{
		Use:     "topics",
		Short:   MsgTopicsShort,
		Long:    MsgTopicsLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			m.WriteIndex(cmd.OutOrStdout(), cmd.Root().Name())
		},
	}
}
