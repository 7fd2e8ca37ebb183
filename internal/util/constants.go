package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"

	StorageAvatarDir = "avatars"
)

// 文件上传相关常量
const (
	MimeImage     = "image/"
	MaxAvatarSize = 2 << 20
)

var (
	AllowedImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
)
