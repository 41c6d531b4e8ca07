package domain

import "time"

// 群发目标受众标签
const (
	AudienceBroadcast  = "broadcast"   // 全平台活跃用户与供应商
	AudienceAllVendors = "all_vendors" // 全部活跃供应商
)

// VendorListing 供应商名录条目
//
// 管理员维护的供应商花名册，也是群发消息 "all_vendors" 受众的数据源。
type VendorListing struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID       string    `json:"userId" gorm:"type:varchar(36);uniqueIndex;not null"`
	BusinessName string    `json:"businessName" gorm:"type:varchar(255);not null"`
	Description  string    `json:"description,omitempty" gorm:"type:text"`
	ContactEmail string    `json:"contactEmail" gorm:"type:varchar(255)"`
	ContactPhone string    `json:"contactPhone,omitempty" gorm:"type:varchar(30)"`
	IsActive     bool      `json:"isActive" gorm:"default:true;index"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ApplicationStatus 供应商申请状态
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

// VendorApplication 供应商入驻申请
type VendorApplication struct {
	ID           string            `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID       string            `json:"userId" gorm:"type:varchar(36);index;not null"`
	BusinessName string            `json:"businessName" gorm:"type:varchar(255);not null"`
	Description  string            `json:"description,omitempty" gorm:"type:text"`
	ContactEmail string            `json:"contactEmail" gorm:"type:varchar(255)"`
	ContactPhone string            `json:"contactPhone,omitempty" gorm:"type:varchar(30)"`
	Status       ApplicationStatus `json:"status" gorm:"type:varchar(10);default:'pending';index"`
	ReviewedBy   *string           `json:"reviewedBy" gorm:"type:varchar(36)"`
	ReviewedAt   *time.Time        `json:"reviewedAt"`
	ReviewNote   string            `json:"reviewNote,omitempty" gorm:"type:varchar(500)"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}
