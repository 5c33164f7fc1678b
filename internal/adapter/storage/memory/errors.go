package memory

import "fmt"

func errUserMissing(id string) error {
	return fmt.Errorf("user not found: %s", id)
}

func errNegativeBalance(id string) error {
	return fmt.Errorf("balance adjustment rejected for user %s", id)
}
