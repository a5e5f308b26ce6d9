package clock

import "time"

// WallSource 操作系统实时时钟
type WallSource interface {
	// ReadWall 读取纪元秒与纳秒
	ReadWall() (sec, nsec int64, err error)
	// Resolution 时钟分辨率
	Resolution() (time.Duration, error)
}

// NewSystemWallSource 返回平台的实时时钟
func NewSystemWallSource() WallSource { return systemWallSource{} }

type systemWallSource struct{}
