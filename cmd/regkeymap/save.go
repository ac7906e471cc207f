package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"regkeymap/fwimage_blob"
)

func newSaveCmd() *cobra.Command {
	var (
		image  imageFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "save [image-file]",
		Short: "Write the loaded image as a dump directory that --from can reload",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return errors.New("--output is required")
			}

			img, err := image.open(cmd, args)
			if err != nil {
				return err
			}
			defer img.Close()

			if err := fwimage_blob.SaveImage(img, output); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d regions) to %s\n", img.Name(), len(img.GetMemoryMap()), output)
			return nil
		},
	}

	image.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "dump directory to write")

	return cmd
}
