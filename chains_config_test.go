package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChainsConfig_verifyVariables(t *testing.T) {
	tcs := []struct {
		name             string
		cfg              ChainsConfig
		expectedErrorStr string
	}{
		{
			name: "valid config",
			cfg: ChainsConfig{
				Chains: []ChainConfig{
					{ID: 137, Name: "polygon", Gateways: []string{"wss://gw1.example.com/ws", "wss://gw2.example.com/ws"}},
					{ID: 84532, Name: "base_sepolia", Gateways: []string{"wss://sepolia.example.com/ws"}},
				},
			},
		},
		{
			name: "invalid name",
			cfg: ChainsConfig{
				Chains: []ChainConfig{
					{ID: 1, Name: "Invalid Name!", Gateways: []string{"wss://gw.example.com/ws"}},
				},
			},
			expectedErrorStr: "invalid chain name 'Invalid Name!', should match snake_case format",
		},
		{
			name: "underscore wrapped name",
			cfg: ChainsConfig{
				Chains: []ChainConfig{
					{ID: 1, Name: "_foo_", Gateways: []string{"wss://gw.example.com/ws"}},
				},
			},
			expectedErrorStr: "invalid chain name '_foo_', should match snake_case format",
		},
		{
			name: "missing chain id",
			cfg: ChainsConfig{
				Chains: []ChainConfig{
					{Name: "polygon", Gateways: []string{"wss://gw.example.com/ws"}},
				},
			},
			expectedErrorStr: "missing chain id for chain 'polygon'",
		},
		{
			name: "duplicate chain id",
			cfg: ChainsConfig{
				Chains: []ChainConfig{
					{ID: 137, Name: "polygon", Gateways: []string{"wss://gw1.example.com/ws"}},
					{ID: 137, Name: "polygon_copy", Gateways: []string{"wss://gw2.example.com/ws"}},
				},
			},
			expectedErrorStr: "duplicate chain id 137 for chains 'polygon' and 'polygon_copy'",
		},
		{
			name: "missing gateways",
			cfg: ChainsConfig{
				Chains: []ChainConfig{
					{ID: 137, Name: "polygon"},
				},
			},
			expectedErrorStr: "missing gateway endpoints for chain 'polygon'",
		},
		{
			name: "disabled chain skips validation",
			cfg: ChainsConfig{
				Chains: []ChainConfig{
					{ID: 137, Name: "polygon", Gateways: []string{"wss://gw.example.com/ws"}},
					{Name: "_broken_", Disabled: true},
				},
			},
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.verifyVariables()
			if tc.expectedErrorStr != "" {
				require.Error(t, err)
				assert.Equal(t, tc.expectedErrorStr, err.Error())
				return
			}

			require.NoError(t, err)
		})
	}
}

func TestLoadChains(t *testing.T) {
	dir := t.TempDir()
	content := `chains:
  - name: polygon
    id: 137
    gateways:
      - wss://gw1.example.com/ws
      - wss://gw2.example.com/ws
  - name: base_sepolia
    id: 84532
    disabled: true
    gateways:
      - wss://sepolia.example.com/ws
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, chainsFileName), []byte(content), 0o644))

	chains, err := LoadChains(dir)
	require.NoError(t, err)

	require.Len(t, chains, 1)
	polygon := chains[137]
	assert.Equal(t, "polygon", polygon.Name)
	assert.Equal(t, uint32(137), polygon.ID)
	assert.Equal(t, []string{"wss://gw1.example.com/ws", "wss://gw2.example.com/ws"}, polygon.Gateways)
	assert.Empty(t, polygon.BroadcastRPC)
}

func TestLoadChains_MissingFile(t *testing.T) {
	_, err := LoadChains(t.TempDir())
	assert.Error(t, err)
}

func TestChainsConfig_resolveBroadcastRPCs(t *testing.T) {
	node := newStubNode(t, 137)

	t.Run("resolved and verified", func(t *testing.T) {
		t.Setenv("POLYGON_BROADCAST_RPC", node.URL)

		cfg := ChainsConfig{
			Chains: []ChainConfig{
				{ID: 137, Name: "polygon", Gateways: []string{"wss://gw.example.com/ws"}, DirectBroadcast: true},
			},
		}
		require.NoError(t, cfg.resolveBroadcastRPCs())
		assert.Equal(t, node.URL, cfg.Chains[0].BroadcastRPC)
	})

	t.Run("missing env var", func(t *testing.T) {
		cfg := ChainsConfig{
			Chains: []ChainConfig{
				{ID: 137, Name: "optimism", Gateways: []string{"wss://gw.example.com/ws"}, DirectBroadcast: true},
			},
		}
		err := cfg.resolveBroadcastRPCs()
		require.Error(t, err)
		assert.Equal(t, "missing broadcast RPC for chain 'optimism'", err.Error())
	})

	t.Run("chain id mismatch", func(t *testing.T) {
		t.Setenv("POLYGON_BROADCAST_RPC", node.URL)

		cfg := ChainsConfig{
			Chains: []ChainConfig{
				{ID: 1, Name: "polygon", Gateways: []string{"wss://gw.example.com/ws"}, DirectBroadcast: true},
			},
		}
		err := cfg.resolveBroadcastRPCs()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected chain ID from broadcast RPC: got 137, want 1")
	})

	t.Run("gateway broadcast needs no env", func(t *testing.T) {
		cfg := ChainsConfig{
			Chains: []ChainConfig{
				{ID: 137, Name: "polygon", Gateways: []string{"wss://gw.example.com/ws"}},
			},
		}
		require.NoError(t, cfg.resolveBroadcastRPCs())
		assert.Empty(t, cfg.Chains[0].BroadcastRPC)
	})
}

// Helper functions

// newStubNode runs a JSON-RPC server that answers eth_chainId with the
// given chain id.
func newStubNode(t *testing.T, chainID uint64) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%s,"result":"0x%x"}`, req.ID, chainID)
	}))
	t.Cleanup(server.Close)
	return server
}
