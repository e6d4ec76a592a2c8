// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/jokerswap/joker/joker"
	"github.com/jokerswap/joker/xenv"
)

func init() {
	Migrator.constructor = func(env *xenv.Environment) []any {
		var args struct {
			NewToken common.Address
		}
		env.ParseArgs(&args)
		Migrator.Native(env).Initialize(joker.Address(args.NewToken))
		return nil
	}

	Migrator.register([]define{
		{"newToken", func(env *xenv.Environment) []any {
			addr, err := Migrator.Native(env).NewToken()
			check(env, err)
			return []any{addr}
		}},
		{"migrate", func(env *xenv.Environment) []any {
			var args struct {
				Token common.Address
			}
			env.ParseArgs(&args)
			addr, err := Migrator.Native(env).Migrate(joker.Address(args.Token))
			check(env, err)
			return []any{addr}
		}},
	})
}
