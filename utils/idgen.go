package utils

import (
	"fmt"
	"log"

	"github.com/bwmarrin/snowflake"
)

var node *snowflake.Node

func InitIDGen() {
	var err error
	node, err = snowflake.NewNode(1)
	if err != nil {
		log.Fatalf("Failed to init Snowflake: %v", err)
	}
}

// NewRefNo returns a payment reference number unique across the process,
// even for payments recorded in the same millisecond.
func NewRefNo() string {
	return fmt.Sprintf("PAY-%s", node.Generate().String())
}
