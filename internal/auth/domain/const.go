package domain

// Roles granted to principals. Embedded in access token claims and used by
// the HTTP layer for coarse authorization decisions.
const (
	// RoleUser is the default role for interactive users.
	RoleUser = "user"

	// RoleAdmin marks users allowed to manage service accounts.
	RoleAdmin = "admin"

	// RoleService is the fixed role for service account principals.
	RoleService = "service"
)

// Claim keys carried by access tokens.
const (
	// ClaimRole holds the principal's primary role.
	ClaimRole = "role"

	// ClaimType distinguishes user tokens from service tokens.
	ClaimType = "type"

	// ClaimServiceName holds the service name for service tokens.
	ClaimServiceName = "service_name"

	// ClaimServiceID holds the service account ID for service tokens.
	ClaimServiceID = "service_id"
)

// PrincipalTypeService is the ClaimType value for service account tokens.
const PrincipalTypeService = "service"

// TokenTypeBearer is the token_type value returned with every token pair.
const TokenTypeBearer = "Bearer"
