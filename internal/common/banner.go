package common

import (
	"fmt"

	"github.com/ternarybob/banner"
)

// PrintBanner displays the application banner followed by the settings an
// operator most often needs to confirm at startup.
func PrintBanner(version string, config *Config) {
	banner.PrintSimple("ClassSync", version)
	if config == nil {
		return
	}

	illustrations := "off"
	if config.Document.Visual {
		illustrations = "on"
	}

	fmt.Printf("  Listening      http://%s:%d\n", config.Server.Host, config.Server.Port)
	fmt.Printf("  Merge model    %s\n", config.LLM.Merge)
	fmt.Printf("  Illustrations  %s\n", illustrations)
	fmt.Printf("  Storage        %s\n\n", config.Storage.Badger.Path)
}
