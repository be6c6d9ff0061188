package common

// AccessTokenHeaderName is the gRPC metadata key that carries the gateway
// access token on inbound chat deliveries.
const AccessTokenHeaderName = "access_token"
