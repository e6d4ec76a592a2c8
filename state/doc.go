// Copyright (c) 2026 The JokerSwap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages the flat world state of the builtin programs.
// It follows the flow as bellow:
//
//	          o
//	          |
//	 [ revertable state ]
//	          |
//	   [ stacked map ] -> [ journal ] -> [ commit batch ]
//	          |
//	   [ read cache ]
//	          |
//	    [ kv store ]
//
// Every account owns a native balance, a program name (its code) and a
// storage space addressed by 32-byte slots holding rlp encoded values.
package state
