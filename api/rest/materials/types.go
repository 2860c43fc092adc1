package materials

import "codeberg.org/weconnect/server/weconnect/materials"

// one diamond's payout to the material owner, in dollars
const earningsPerDiamond = 0.05

type MaterialResponse struct {
	Material *materials.MaterialRecord `json:"material"`
}

type MaterialListResponse struct {
	Materials []materials.MaterialRecord `json:"materials"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
