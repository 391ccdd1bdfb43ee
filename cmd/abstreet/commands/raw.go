package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	ghttp "github.com/panyam/goutils/http"
	"github.com/spf13/cobra"
)

var rawCmd = &cobra.Command{
	Use:   "raw [method] [path] [json-body]",
	Short: "Make a raw call against the headless API",
	Long: `Send an ad-hoc request to a JSON endpoint of the headless API and
pretty-print the response. Useful for endpoints this tool has no wrapper
for.

Examples:
  abstreet raw GET /data/get-finished-trips
  abstreet raw GET "/traffic-signals/get?id=67"
  abstreet raw POST /traffic-signals/set "$(cat signal.json)"`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		method := strings.ToUpper(args[0])
		path := args[1]
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}

		var body map[string]any
		if len(args) == 3 {
			if err := json.Unmarshal([]byte(args[2]), &body); err != nil {
				return fmt.Errorf("request body is not a JSON object: %w", err)
			}
		}

		resp, err := makeRawCall(method, path, body)
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

// makeRawCall sends one request to the headless server and returns the
// decoded JSON response as loose data.
func makeRawCall(method, endpoint string, body map[string]any) (any, error) {
	url := strings.TrimSuffix(getAPIURL(), "/") + endpoint
	slog.Debug("Calling headless API", "method", method, "url", url)
	req, err := ghttp.NewJsonRequest(method, url, body)
	if err != nil {
		return nil, err
	}
	return ghttp.Call(req, nil)
}

func init() {
	AddCommand(rawCmd)
}
