// solstis-ctl talks to the running daemon over its control socket.
//
//	solstis-ctl state   current conversation state
//	solstis-ctl items   all item IDs in the kit catalog
//	solstis-ctl lit     item IDs currently highlighted
//	solstis-ctl reset   drop the session and return to standby
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"solstis/internal/ipc"
)

func main() {
	socket := pflag.String("socket", ipc.DefaultSocketPath, "control socket path")
	pflag.Parse()

	if pflag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: solstis-ctl [--socket path] state|items|lit|reset")
		os.Exit(2)
	}
	op := pflag.Arg(0)

	reply, err := ipc.Send(*socket, op)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if !reply.OK {
		fmt.Fprintln(os.Stderr, reply.Error)
		os.Exit(1)
	}

	switch op {
	case "state":
		fmt.Println(reply.State)
	case "items", "lit":
		if len(reply.Items) == 0 {
			fmt.Println("none")
		} else {
			fmt.Println(strings.Join(reply.Items, " "))
		}
	case "reset":
		fmt.Println("ok")
	}
}
