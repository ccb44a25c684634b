package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const guidePrompt = `# Working on a Plotline Project

Follow these steps in order.

## Step 1: Learn the CLI

Run ` + "`plotline --mtp-describe`" + ` and read the output to understand the available commands. Do not skip this step.

## Step 2: Read the Outline

Run ` + "`plotline tree`" + ` to see the book, research and planning branches. Run ` + "`plotline status`" + ` and ` + "`plotline words`" + ` to see how far the draft has come.

## Step 3: Check the Arcs

Run ` + "`plotline arcs show`" + `. Scenes marked "(no arc point)" carry an arc that no planning scene is anchored to yet. Run ` + "`plotline arcs check`" + ` to find arc names that no chapter defines.

## Step 4: Pick One Scene

Choose a single scene to work on, preferring the earliest scene still at "outline" status. Read it with ` + "`plotline scene show <id> --pretty`" + `.

## Step 5: Write

Replace the prose with ` + "`plotline scene edit <id>`" + ` (pipe the new text on stdin), then move it forward with ` + "`plotline scene set <id> --status draft`" + `. Keep its arcs, characters and locations current with ` + "`plotline scene arcs`" + ` and ` + "`plotline scene relate`" + `.

## Step 6: Stop

Run ` + "`plotline words record`" + ` and stop. Do not start another scene.
`

var guideCmd = &cobra.Command{
	Use:   "guide",
	Short: "Print a step-by-step working guide for automated writing assistants",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Print(guidePrompt)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(guideCmd)
}
