// Package commands implements the coulomb command structure using Cobra.
package commands
