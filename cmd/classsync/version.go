package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mukundj26/Classroom-Note-Merger/internal/common"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ClassSync version %s\n", common.GetFullVersion())
	},
}
