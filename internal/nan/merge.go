package nan

// MergeConfigs combines the currently-connected clients' ConfigRequests
// into the single device-level request the HAL runs (spec §4.3).
//
// Field rules:
//   - Support5gBand: logical OR.
//   - MasterPreference: maximum.
//   - ClusterLow: minimum across requests that constrain the cluster range.
//   - ClusterHigh: maximum across requests that constrain the cluster range.
//   - IdentityChangeCallbackEnabled: logical OR (per-client delivery is
//     filtered at dispatch time, not here).
//
// A request whose cluster range is still the full [ClusterIDMin,
// ClusterIDMax] default is a "don't care": it does not narrow the merged
// range. Without this rule a defaults-only client would always drag the
// merged range back out to the full span.
//
// MergeConfigs panics if requests is empty -- callers must instead issue
// HAL.Disable when no client has a config (spec §4.3 "merge(∅) is
// undefined").
func MergeConfigs(requests []ConfigRequest) ConfigRequest {
	if len(requests) == 0 {
		panic("nan: MergeConfigs called with no requests")
	}

	var support5g, identityChange bool
	var masterPref uint8

	clusterLow := uint16(ClusterIDMin)
	clusterHigh := uint16(ClusterIDMax)
	clusterRangeSet := false

	for _, req := range requests {
		if req.ClusterLow() != ClusterIDMin || req.ClusterHigh() != ClusterIDMax {
			if !clusterRangeSet {
				clusterLow = req.ClusterLow()
				clusterHigh = req.ClusterHigh()
				clusterRangeSet = true
			} else {
				if req.ClusterLow() < clusterLow {
					clusterLow = req.ClusterLow()
				}
				if req.ClusterHigh() > clusterHigh {
					clusterHigh = req.ClusterHigh()
				}
			}
		}
		if req.MasterPreference() > masterPref {
			masterPref = req.MasterPreference()
		}
		support5g = support5g || req.Support5gBand()
		identityChange = identityChange || req.IdentityChangeCallbackEnabled()
	}

	return NewConfigRequestBuilder().
		SetClusterLow(clusterLow).
		SetClusterHigh(clusterHigh).
		SetMasterPreference(masterPref).
		SetSupport5gBand(support5g).
		SetIdentityChangeCallbackEnabled(identityChange).
		Build()
}
