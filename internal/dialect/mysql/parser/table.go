package mysql

import (
	"github.com/pingcap/tidb/pkg/parser/mysql"
	"github.com/pingcap/tidb/pkg/parser/types"

	"github.com/shuymn/stateql/internal/core"
)

// Attribute keys for MySQL-specific table/column knobs the canonical IR
// has no dedicated field for (core.Table.Attributes, core.Column.Attributes).
const (
	AttrRowFormat     = "mysql.row_format"
	AttrAutoIncrement = "mysql.auto_increment"
	AttrUnsigned      = "mysql.unsigned"
	AttrZerofill      = "mysql.zerofill"
)

// dataTypeOf maps a TiDB FieldType onto the canonical DataType. Widths and
// precision/scale carry over, and UNSIGNED is recorded in DataType.Unsigned
// for the integer kinds. ZEROFILL is not recorded anywhere.
func dataTypeOf(tp *types.FieldType) core.DataType {
	unsigned := tp.GetFlag()&mysql.UnsignedFlag != 0

	switch tp.GetType() {
	case mysql.TypeTiny:
		return core.DataType{Kind: core.TypeInteger, IntWidth: core.IntTiny, Unsigned: unsigned}
	case mysql.TypeShort:
		return core.DataType{Kind: core.TypeInteger, IntWidth: core.IntSmall, Unsigned: unsigned}
	case mysql.TypeInt24:
		return core.DataType{Kind: core.TypeInteger, IntWidth: core.IntMedium, Unsigned: unsigned}
	case mysql.TypeLong:
		return core.DataType{Kind: core.TypeInteger, IntWidth: core.IntNormal, Unsigned: unsigned}
	case mysql.TypeLonglong:
		return core.DataType{Kind: core.TypeInteger, IntWidth: core.IntBig, Unsigned: unsigned}

	case mysql.TypeNewDecimal, mysql.TypeDecimal:
		return core.DataType{Kind: core.TypeDecimal, Precision: tp.GetFlen(), Scale: tp.GetDecimal(), HasScale: tp.GetDecimal() >= 0}

	case mysql.TypeFloat, mysql.TypeDouble:
		return core.DataType{Kind: core.TypeDecimal, Precision: tp.GetFlen(), Scale: tp.GetDecimal(), HasScale: tp.GetDecimal() >= 0}

	case mysql.TypeVarchar, mysql.TypeVarString:
		return core.DataType{Kind: core.TypeText, Length: tp.GetFlen(), HasLength: true, FixedLength: false}
	case mysql.TypeString:
		return core.DataType{Kind: core.TypeText, Length: tp.GetFlen(), HasLength: true, FixedLength: true}

	case mysql.TypeBlob, mysql.TypeTinyBlob, mysql.TypeMediumBlob, mysql.TypeLongBlob:
		// MySQL's TEXT family is lexed as a Blob subtype by TiDB; a bare
		// charset-bearing blob is textual, a charset-less one is binary.
		if tp.GetCharset() != "" && tp.GetCharset() != "binary" {
			return core.DataType{Kind: core.TypeText, Length: tp.GetFlen(), HasLength: tp.GetFlen() > 0}
		}
		return core.DataType{Kind: core.TypeBlob, Length: tp.GetFlen(), HasLength: tp.GetFlen() > 0}

	case mysql.TypeDate, mysql.TypeNewDate:
		return core.DataType{Kind: core.TypeDate}
	case mysql.TypeDuration:
		return core.DataType{Kind: core.TypeTime}
	case mysql.TypeDatetime:
		return core.DataType{Kind: core.TypeTimestamp}
	case mysql.TypeTimestamp:
		return core.DataType{Kind: core.TypeTimestamp, WithTZ: true}

	case mysql.TypeJSON:
		return core.DataType{Kind: core.TypeJSON}

	case mysql.TypeBit:
		return core.NewCustomType("BIT")
	case mysql.TypeEnum:
		return core.NewCustomType("ENUM")
	case mysql.TypeSet:
		return core.NewCustomType("SET")
	case mysql.TypeYear:
		return core.NewCustomType("YEAR")

	default:
		return core.NewCustomType(tp.String())
	}
}
