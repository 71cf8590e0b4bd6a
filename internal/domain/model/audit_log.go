package model

import "time"

// メニュー追加・削除、在庫更新、注文ステータス更新など。
type AuditAction string

const (
	//メニューを追加した操作。
	AuditActionCreateMenuItem AuditAction = "CREATE_MENU_ITEM"
	//メニューを削除した操作。
	AuditActionDeleteMenuItem AuditAction = "DELETE_MENU_ITEM"
	//価格を変更した操作。
	AuditActionUpdatePrice AuditAction = "UPDATE_PRICE"
	//在庫を更新した操作。
	AuditActionUpdateStock AuditAction = "UPDATE_STOCK"
	//注文ステータスを更新した操作。
	AuditActionUpdateOrderStatus AuditAction = "UPDATE_ORDER_STATUS"
)

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceMenuItem AuditResourceType = "menu_item"
	AuditResourceOrder    AuditResourceType = "order"
)

// 監査ログ（操作ログ）。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID string `json:"id"`

	//操作元（console / http / system）。
	Actor string `json:"actor"`

	Action       AuditAction       `json:"action"`
	ResourceType AuditResourceType `json:"resource_type"`
	ResourceID   int64             `json:"resource_id"`

	//JSON文字列で保存する。
	BeforeJSON string `json:"before_json"`
	AfterJSON  string `json:"after_json"`

	CreatedAt time.Time `json:"created_at"`
}
