package shared

import (
	"fmt"
	"strings"
)

// messages 接口提示文案表，key 与 service 层错误一一对应
var messages = map[string]string{
	"error.bad_request":              "Invalid request parameters",
	"error.unauthorized":             "Unauthorized",
	"error.forbidden":                "Forbidden",
	"error.not_found":                "Resource not found",
	"error.internal":                 "Internal server error",
	"error.too_many_requests":        "Too many requests, please try again later",
	"error.login_rate_limited":       "Too many login attempts, please try again in %d seconds",
	"error.token_invalid":            "Invalid or expired token",
	"error.token_missing":            "Authorization token is required",
	"error.token_revoked":            "Token has been revoked",
	"error.admin_id_invalid":         "Invalid admin id",
	"error.user_id_invalid":          "Invalid user id",
	"error.session_invalid":          "Invalid session id",
	"error.session_failed":           "Failed to update session",
	"error.session_merge_forbidden":  "Cannot merge a cart that belongs to another account",
	"error.login_failed":             "Invalid username or password",
	"error.login_required":           "Please log in before checking out",
	"error.user_disabled":            "This account has been disabled",
	"error.username_exists":          "Username already exists",
	"error.username_invalid":         "Username must be 3-64 characters",
	"error.password_old_invalid":     "Current password is incorrect",
	"error.password_min_length":      "Password must be at least %d characters",
	"error.password_require_upper":   "Password must contain an uppercase letter",
	"error.password_require_lower":   "Password must contain a lowercase letter",
	"error.password_require_number":  "Password must contain a number",
	"error.password_require_special": "Password must contain a special character",
	"error.password_weak":            "Password does not meet the policy",
	"error.captcha_required":         "Captcha is required",
	"error.captcha_invalid":          "Captcha is invalid",
	"error.captcha_config_invalid":   "Captcha is not configured",
	"error.product_not_found":        "Product not found",
	"error.product_not_available":    "Product is not available",
	"error.product_invalid":          "Name, price and category are required",
	"error.category_invalid":         "Unknown category",
	"error.price_invalid":            "Invalid price",
	"error.price_range_invalid":      "Unknown price range",
	"error.stock_invalid":            "Stock must not be negative",
	"error.stock_insufficient":       "Not enough stock for an item in the cart",
	"error.quantity_invalid":         "Quantity must be a number between 0 and 9999",
	"error.post_not_found":           "Post not found",
	"error.post_invalid":             "Title and content are required",
	"error.slug_exists":              "Slug already exists",
	"error.cart_empty":               "Cart is empty",
	"error.delivery_area_invalid":    "Please select a valid delivery area",
	"error.shipping_info_required":   "Address, phone and name are required",
	"error.order_not_found":          "Order not found",
	"error.order_status_invalid":     "Invalid order status",
	"error.order_create_failed":      "Failed to place order",
	"error.upload_failed":            "Upload failed",
	"error.upload_file_required":     "No file uploaded",
	"error.upload_too_large":         "File is too large",
	"error.upload_extension":         "File extension is not allowed",
	"error.upload_content_type":      "File type is not allowed",
	"error.upload_image_dimension":   "Image dimensions are too large",
	"error.upload_image_invalid":     "Image cannot be decoded",
	"error.save_failed":              "Failed to save",
	"error.delete_failed":            "Failed to delete",
	"error.query_failed":             "Failed to query",
}

// Message 按 key 取文案，未登记的 key 原样返回
func Message(key string, args ...interface{}) string {
	msg, ok := messages[strings.TrimSpace(key)]
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}
