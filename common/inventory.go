package common

import (
	log "github.com/sirupsen/logrus"

	"dev.rackwire.net/fabricmap/util"
)

// CredentialSets - Ordered credential candidates per device class.
type CredentialSets struct {
	Nodes    []Credential `json:"nodes"`
	Switches []Credential `json:"switches"`
}

// Inventory - Nodes and fabric switches from the management collaborator.
type Inventory struct {
	Nodes    []Node   `json:"nodes"`
	Switches []Switch `json:"switches"`
}

// GlobalCredentials - Loaded credential candidates.
var GlobalCredentials CredentialSets

// GlobalInventory - Loaded inventory, management IPs must be unique.
var GlobalInventory Inventory

// LoadCredentials - Load credentials from file from config.
func LoadCredentials() bool {
	if GlobalConfig.CredentialsPath == "" {
		log.Error("Credentials config path missing")
		return false
	}

	if !util.ParseJSONFile(&GlobalCredentials, GlobalConfig.CredentialsPath) {
		return false
	}

	for _, credential := range append(GlobalCredentials.Nodes, GlobalCredentials.Switches...) {
		if credential.Username == "" {
			log.Error("Invalid credential, missing username")
			return false
		}
	}
	if len(GlobalCredentials.Nodes) == 0 || len(GlobalCredentials.Switches) == 0 {
		log.Error("Need at least one node credential and one switch credential")
		return false
	}

	log.WithFields(log.Fields{
		"node_credentials":   len(GlobalCredentials.Nodes),
		"switch_credentials": len(GlobalCredentials.Switches),
	}).Info("Loaded credentials")

	return true
}

// LoadInventory - Load node and switch inventory from file from config.
func LoadInventory() bool {
	if GlobalConfig.InventoryPath == "" {
		log.Error("Inventory config path missing")
		return false
	}

	if !util.ParseJSONFile(&GlobalInventory, GlobalConfig.InventoryPath) {
		return false
	}

	seenAddresses := make(map[string]bool)
	for _, node := range GlobalInventory.Nodes {
		if node.ManagementIP == "" || node.Hostname == "" {
			log.WithFields(log.Fields{
				"node_hostname": node.Hostname,
			}).Error("Invalid node, missing fields")
			return false
		}
		if seenAddresses[node.ManagementIP] {
			log.WithFields(log.Fields{
				"management_ip": node.ManagementIP,
			}).Error("Duplicate management IP found")
			return false
		}
		seenAddresses[node.ManagementIP] = true
		switch node.Role {
		case RoleCompute, RoleStorage, RoleUnknown:
		case "":
		default:
			log.WithFields(log.Fields{
				"node_hostname": node.Hostname,
				"role":          node.Role,
			}).Error("Invalid node, unknown role")
			return false
		}
	}
	for _, sw := range GlobalInventory.Switches {
		if sw.ManagementIP == "" {
			log.Error("Invalid switch, missing management IP")
			return false
		}
		if seenAddresses[sw.ManagementIP] {
			log.WithFields(log.Fields{
				"management_ip": sw.ManagementIP,
			}).Error("Duplicate management IP found")
			return false
		}
		seenAddresses[sw.ManagementIP] = true
	}

	log.WithFields(log.Fields{
		"node_count":   len(GlobalInventory.Nodes),
		"switch_count": len(GlobalInventory.Switches),
	}).Info("Loaded inventory")

	return true
}
