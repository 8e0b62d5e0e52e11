package main

import (
	"bufio"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/kavalan/docshard/balancer"
	"github.com/kavalan/docshard/docstore"
	"github.com/kavalan/docshard/metrics/prom"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var runCmd = &cobra.Command{
	Use:   "run <script-file>",
	Short: "drive a load-balanced cluster from a script and print the transcript",
	Args:  cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return viper.BindPFlags(cmd.Flags())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		lb := balancer.New(viper.GetBool("vnodes"))
		if addr := viper.GetString("metrics-addr"); addr != "" {
			lb.SetMetrics(prom.NewBalancerAdapter(nil, "docshard", "balancer", nil))
			http.Handle("/metrics", promhttp.Handler())
			go func() {
				log.Printf("serving metrics on %s/metrics", addr)
				log.Println(http.ListenAndServe(addr, nil))
			}()
		}

		return runScript(lb, f, viper.GetInt("cache-size"), os.Stdout)
	},
}

// runScript reads one operation per line from src and drives lb, writing
// every response — including ones drained while answering a GET — to out
// via docstore.Render (SPEC_FULL.md §6's script grammar).
func runScript(lb *balancer.LoadBalancer, src *os.File, defaultCacheSize int, out *os.File) error {
	scanner := bufio.NewScanner(src)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := runLine(lb, line, defaultCacheSize, out); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func runLine(lb *balancer.LoadBalancer, line string, defaultCacheSize int, out *os.File) error {
	parts := strings.SplitN(line, " ", 2)
	op := strings.ToUpper(parts[0])
	rest := ""
	if len(parts) > 1 {
		rest = parts[1]
	}

	switch op {
	case "ADD":
		args := strings.Fields(rest)
		id, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("ADD: bad server id %q: %w", args[0], err)
		}
		size := defaultCacheSize
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("ADD: bad cache size %q: %w", args[1], err)
			}
			size = n
		}
		lb.AddServer(uint32(id), size)
		return nil

	case "REMOVE":
		id, err := strconv.ParseUint(strings.Fields(rest)[0], 10, 32)
		if err != nil {
			return fmt.Errorf("REMOVE: bad server id: %w", err)
		}
		lb.RemoveServer(uint32(id))
		return nil

	case "EDIT":
		docContent := strings.SplitN(rest, " ", 2)
		doc := docContent[0]
		content := ""
		if len(docContent) > 1 {
			content = docContent[1]
		}
		return dispatch(lb, docstore.Request{Type: docstore.Edit, DocName: doc, DocContent: content}, out)

	case "GET":
		doc := strings.Fields(rest)[0]
		return dispatch(lb, docstore.Request{Type: docstore.Get, DocName: doc}, out)

	default:
		return fmt.Errorf("unrecognized operation %q", op)
	}
}

func dispatch(lb *balancer.LoadBalancer, req docstore.Request, out *os.File) error {
	resp, err := lb.HandleRequest(req, out)
	if err != nil {
		// spec.md §7: EmptyRing "cannot occur if the driver's scripts are
		// well-formed; if it does, the implementation may terminate the
		// process with a diagnostic."
		log.Fatalf("docshard: %v", err)
	}
	fmt.Fprintln(out, docstore.Render(resp))
	return nil
}
