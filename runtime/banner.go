package runtime

import (
	"fmt"
	"io"
	"strings"

	"github.com/leeforge/autumn/env_mode"
)

// Version is printed in the startup banner.
const Version = "0.1.0"

const bannerArt = `
                 _
  __ _ _   _| |_ _   _ _ __ ___  _ __
 / _' | | | | __| | | | '_ ' _ \| '_ \
| (_| | |_| | |_| |_| | | | | | | | | |
 \__,_|\__,_|\__|\__,_|_| |_| |_|_| |_|
`

func printBanner(w io.Writer, env env_mode.Env) {
	if w == nil {
		return
	}
	art := strings.TrimPrefix(bannerArt, "\n")
	fmt.Fprint(w, art)
	fmt.Fprintf(w, " :: autumn :: v%s (%s)\n\n", Version, env)
}
