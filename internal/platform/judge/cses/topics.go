package cses

import "cp_journey/internal/domain/model"

// DefaultTopicTable maps CSES problem ids to the tracked sections. The table
// lags behind the live catalog; solves whose id is missing here stay
// uncategorized and are excluded from the per-topic counters.
var DefaultTopicTable = model.TopicTable{
	model.TopicIntro: {
		1068, 1083, 1069, 1094, 1070, 1071, 1072, 1092, 1617, 1618,
		1754, 1755, 2205, 2165, 1622, 1623, 1624, 1625, 2431,
	},
	model.TopicSort: {
		1621, 1084, 1090, 1091, 1619, 1629, 1640, 1643, 1074, 2183,
		2216, 2217, 1141, 1073, 1163, 2162, 2163, 1164, 1620, 1085,
		1632, 1644, 1630, 1631, 1641, 1642, 1645, 1660, 1661, 1662,
	},
	model.TopicDP: {
		1633, 1634, 1635, 1636, 1637, 1638, 1158, 1746, 2413, 1639,
		1744, 1745, 1097, 1093, 1145, 1140, 1653, 2181, 2220,
	},
	model.TopicGraph: {
		1192, 1193, 1666, 1667, 1668, 1669, 1671, 1672, 1673, 1195,
		1197, 1196, 1678, 1679, 1680, 1681, 1202, 1750, 1160, 1159,
		1161, 1675, 1676, 1682, 1683, 1684,
	},
	model.TopicRange: {
		1646, 1647, 1648, 1649, 1650, 1651, 1652, 1143, 1749, 1739,
		1735, 1736, 1737, 2166, 2206, 2416,
	},
	model.TopicTree: {
		1674, 1130, 1131, 1132, 1133, 1687, 1688, 1135, 1136, 1137,
		1138, 1139, 2079, 2080, 2081, 2134,
	},
}
