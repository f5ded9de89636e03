package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/kkdai/youtube/v2"
	"github.com/spf13/cobra"
)

var formatsCmd = &cobra.Command{
	Use:   "formats <url>",
	Short: "List the available stream formats for a video",
	Args:  cobra.ExactArgs(1),
	RunE:  formatsRun,
}

func formatsRun(cmd *cobra.Command, args []string) error {
	client := youtube.Client{}
	video, err := client.GetVideoContext(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("fetching video info: %w", err)
	}

	fmt.Printf("%s\n", video.Title)
	fmt.Printf("channel: %s, duration: %s\n\n", video.Author, video.Duration)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ITAG\tQUALITY\tBITRATE\tAUDIO\tMIME")
	for _, format := range video.Formats {
		quality := format.QualityLabel
		if quality == "" {
			quality = "-"
		}
		audio := "-"
		if format.AudioChannels > 0 {
			audio = fmt.Sprintf("%dch", format.AudioChannels)
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n", format.ItagNo, quality, format.Bitrate, audio, format.MimeType)
	}
	return w.Flush()
}
