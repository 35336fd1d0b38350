// Command packctl runs the packaging recommender offline.
//
//	packctl recommend --length 100 --width 50 --height 30 --weight 1.2 --fragility low --category electronics
//	packctl classify photo.jpg
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
