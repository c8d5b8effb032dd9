// Package tagging writes ID3v2 metadata to finished MP3 files.
package tagging

import (
	"fmt"

	"github.com/bogem/id3v2/v2"
)

// TagFile writes the title, the uploader as artist, and the source URL to
// the MP3 at path. Existing frames are preserved.
func TagFile(path, title, artist, sourceURL string) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("failed to open MP3 file: %w", err)
	}
	defer tag.Close()

	tag.SetVersion(4)

	if title != "" {
		tag.SetTitle(title)
	}
	if artist != "" {
		tag.SetArtist(artist)
	}
	if sourceURL != "" {
		tag.AddTextFrame(tag.CommonID("WWWAudioSource"), tag.DefaultEncoding(), sourceURL)
	}

	return tag.Save()
}
