package seller

import (
	"time"
)

// Profile 卖家档案
// 说明：Book.SellerID与Settlement.SellerID引用的都是档案ID
// （而非用户ID）；一个用户最多拥有一个卖家档案。
type Profile struct {
	ID        uint
	UserID    uint
	StoreName string
	CreatedAt time.Time
	UpdatedAt time.Time
}
