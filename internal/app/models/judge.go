package models

import "time"

// Judge is a remote execution worker
type Judge struct {
	ID          int64      `json:"id" db:"id"`
	Name        string     `json:"name" db:"name" binding:"required,max=50"`
	AuthKey     string     `json:"authKey" db:"auth_key" binding:"max=100"`
	Created     time.Time  `json:"created" db:"created"`
	Online      bool       `json:"online" db:"online"`
	StartTime   *time.Time `json:"startTime,omitempty" db:"start_time"`
	Ping        *float64   `json:"ping,omitempty" db:"ping"`
	Load        *float64   `json:"load,omitempty" db:"load"`
	LastIP      string     `json:"lastIp,omitempty" db:"last_ip"`
	Description string     `json:"description" db:"description"`
	Runtimes    []string   `json:"runtimes" db:"-"`
	Problems    []int64    `json:"problems" db:"-"`
}
