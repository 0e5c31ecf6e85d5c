package rpc

// This file defines the protocol-level constants shared by the client
// and the gateways: the protocol version stamped on every call and the
// RPC method names the gateways serve.

// ============================================================================
// Protocol Versioning
// ============================================================================

// Version represents the gateway protocol version.
// It is carried in the auth stamp of every call so that gateways can
// reject clients speaking an incompatible dialect.
type Version string

const (
	// VersionV1 is the initial protocol version.
	VersionV1 Version = "walletgate/1.0"
)

// supportedVersions tracks the versions this client can speak.
var supportedVersions = map[Version]bool{
	VersionV1: true,
}

// IsSupportedVersion checks whether the given version is supported.
func IsSupportedVersion(v Version) bool {
	return supportedVersions[v]
}

// String returns the string representation of the version.
func (v Version) String() string {
	return string(v)
}

// ============================================================================
// RPC Method Constants
// ============================================================================

// Method represents an RPC method name understood by the gateways.
type Method string

const (
	// MethodGetBalance returns the wei balance of an account.
	MethodGetBalance Method = "eth_getBalance"
	// MethodGetTransactionCount returns the nonce of an account.
	MethodGetTransactionCount Method = "eth_getTransactionCount"
	// MethodCall executes a read-only contract call.
	MethodCall Method = "eth_call"
	// MethodEstimateGas estimates the gas needed by a transaction.
	MethodEstimateGas Method = "eth_estimateGas"
	// MethodGasPrice returns the suggested gas price in wei.
	MethodGasPrice Method = "eth_gasPrice"
	// MethodChainID returns the id of the chain the gateway serves.
	MethodChainID Method = "eth_chainId"
	// MethodBlockNumber returns the number of the latest block.
	MethodBlockNumber Method = "eth_blockNumber"
	// MethodSendRawTransaction submits a signed transaction.
	MethodSendRawTransaction Method = "eth_sendRawTransaction"
)

// String returns the string representation of the method.
func (m Method) String() string {
	return string(m)
}
