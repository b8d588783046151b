// Package password provides cost-parameterized one-way password hashing.
package password
