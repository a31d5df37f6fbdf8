// Package shopee drives the Shopee Brazil seller portal: logging in when the
// saved session is stale and scraping the "to ship" order list.
package shopee

// Portal endpoints. These are fixed for this deployment.
const (
	LoginURL     = "https://accounts.shopee.com.br/seller/login"
	OrdersURL    = "https://seller.shopee.com.br/portal/sale/order?type=toship&source=all&invoice_status=all_type&sort_by=ship_by_date_asc"
	PortalPrefix = "https://seller.shopee.com.br/portal/"
)

// AuthCookies are the cookies whose joint presence means the seller is logged in.
var AuthCookies = []string{
	"SPC_EC",
	"SPC_R_T_ID",
	"SPC_R_T_IV",
	"SPC_T_ID",
	"SPC_T_IV",
	"SPC_SC_SESSION",
	"SPC_SEC_SI",
}
