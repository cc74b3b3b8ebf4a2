package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
)

const (
	formatJSON  = "json"
	formatTable = "table"
)

// errUnsupportedFormat is returned when the requested output format is not supported.
var errUnsupportedFormat = errors.New("unsupported output format")

// formatClients renders the connected clients and their sessions in the
// requested format.
func formatClients(clients []clientView, format string) (string, error) {
	switch format {
	case formatJSON:
		return formatJSONIndent(clients)
	case formatTable:
		return formatClientsTable(clients), nil
	default:
		return "", fmt.Errorf("%w: %q", errUnsupportedFormat, format)
	}
}

// formatDevice renders the device-level config/capabilities snapshot in the
// requested format.
func formatDevice(snap snapshotView, format string) (string, error) {
	switch format {
	case formatJSON:
		return formatJSONIndent(snap)
	case formatTable:
		return formatDeviceTable(snap), nil
	default:
		return "", fmt.Errorf("%w: %q", errUnsupportedFormat, format)
	}
}

func formatJSONIndent(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal to JSON: %w", err)
	}
	return string(data) + "\n", nil
}

func formatClientsTable(clients []clientView) string {
	var buf strings.Builder
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CLIENT\tSESSION\tKIND\tPUBSUB-ID\tSTATE\tPEERS")

	for _, c := range clients {
		if len(c.Sessions) == 0 {
			fmt.Fprintf(w, "%d\t-\t-\t-\t-\t-\n", c.ClientID)
			continue
		}
		for _, s := range c.Sessions {
			pubSubID := "-"
			if s.HasPubSubID {
				pubSubID = fmt.Sprintf("%d", s.PubSubID)
			}
			fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%d\n",
				c.ClientID, s.SessionID, sessionKindName(s.Kind), pubSubID,
				lifecycleStateName(s.Lifecycle), s.PeerCount,
			)
		}
	}

	w.Flush() //nolint:errcheck // writing to a strings.Builder never fails

	return buf.String()
}

func formatDeviceTable(snap snapshotView) string {
	var buf strings.Builder
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	if snap.HasLastEffectiveConfig {
		cfg := snap.LastEffectiveConfig
		fmt.Fprintf(w, "Cluster Range:\t%d-%d\n", cfg.ClusterLow, cfg.ClusterHigh)
		fmt.Fprintf(w, "Master Preference:\t%d\n", cfg.MasterPreference)
		fmt.Fprintf(w, "5GHz Support:\t%t\n", cfg.Support5gBand)
		fmt.Fprintf(w, "Identity Change Callback:\t%t\n", cfg.IdentityChangeCallbackEnabled)
	} else {
		fmt.Fprintln(w, "Effective Config:\tnone yet")
	}

	if snap.HasLastCapabilities {
		c := snap.LastCapabilities
		fmt.Fprintf(w, "Max Concurrent Clusters:\t%d\n", c.MaxConcurrentClusters)
		fmt.Fprintf(w, "Max Publishes:\t%d\n", c.MaxPublishes)
		fmt.Fprintf(w, "Max Subscribes:\t%d\n", c.MaxSubscribes)
		fmt.Fprintf(w, "Max Service Name Len:\t%d\n", c.MaxServiceNameLen)
		fmt.Fprintf(w, "Max Match Filter Len:\t%d\n", c.MaxMatchFilterLen)
		fmt.Fprintf(w, "Max NDP Sessions:\t%d\n", c.MaxNdpSessions)
	} else {
		fmt.Fprintln(w, "Capabilities:\tnone reported yet")
	}

	w.Flush() //nolint:errcheck // writing to a strings.Builder never fails

	return buf.String()
}
